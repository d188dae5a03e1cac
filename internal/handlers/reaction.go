package handlers

import (
	"errors"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionService *services.ReactionService
}

func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

type reactRequest struct {
	Type string `json:"type"`
}

// React toggles or replaces the requester's reaction. No captcha, no rate
// limit: reactions are cheap and deduplicated per identity anyway.
func (h *ReactionHandler) React(c *gin.Context) {
	commentID := c.Param("id")

	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.reactionService.React(commentID, middleware.IdentityFrom(c), req.Type)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReactionType):
			Error(c, http.StatusBadRequest, "type must be like or dislike")
		case errors.Is(err, services.ErrCommentNotFound):
			Error(c, http.StatusNotFound, "comment not found")
		default:
			Error(c, http.StatusInternalServerError, "could not record reaction")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"action": outcome})
}

// Counts returns the live like/dislike tallies.
func (h *ReactionHandler) Counts(c *gin.Context) {
	likes, dislikes, err := h.reactionService.GetCounts(c.Param("id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, "could not load reactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"like": likes, "dislike": dislikes})
}
