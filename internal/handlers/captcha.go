package handlers

import (
	"net/http"

	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

type CaptchaHandler struct {
	captchaService *services.CaptchaService
}

func NewCaptchaHandler(captchaService *services.CaptchaService) *CaptchaHandler {
	return &CaptchaHandler{captchaService: captchaService}
}

// Issue hands the client a fresh challenge. The answer never leaves the server.
func (h *CaptchaHandler) Issue(c *gin.Context) {
	sessionID, question, err := h.captchaService.Issue(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, "could not issue captcha")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"question":   question,
	})
}

type verifyRequest struct {
	SessionID string `json:"session_id"`
	Answer    *int   `json:"answer"`
}

// Verify gives the UI its "correct!" feedback; the record survives until the
// comment submission consumes it.
func (h *CaptchaHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" || req.Answer == nil {
		Error(c, http.StatusBadRequest, "session_id and answer are required")
		return
	}

	switch h.captchaService.Verify(c.Request.Context(), req.SessionID, *req.Answer) {
	case services.VerifyOK:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case services.VerifyExpired:
		Error(c, http.StatusBadRequest, "captcha expired, request a new challenge")
	default:
		// notFound and incorrect collapse into one message on purpose.
		Error(c, http.StatusBadRequest, "captcha verification failed")
	}
}
