package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	intake         *services.CommentIntake
	commentService *services.CommentService
	grantService   *services.GrantService
}

func NewCommentHandler(intake *services.CommentIntake, commentService *services.CommentService, grantService *services.GrantService) *CommentHandler {
	return &CommentHandler{
		intake:         intake,
		commentService: commentService,
		grantService:   grantService,
	}
}

type createCommentRequest struct {
	PostID     string  `json:"post_id"`
	ParentID   *string `json:"parent_id"`
	AuthorName string  `json:"author_name"`
	Content    string  `json:"content"`
	SessionID  string  `json:"session_id"`
	Answer     *int    `json:"answer"`
}

// Create runs the intake pipeline for one anonymous comment.
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PostID == "" {
		Error(c, http.StatusBadRequest, "post_id is required")
		return
	}

	result := h.intake.Submit(c.Request.Context(), services.SubmitInput{
		PostID:     req.PostID,
		ParentID:   req.ParentID,
		AuthorName: req.AuthorName,
		Content:    req.Content,
		SessionID:  req.SessionID,
		Answer:     req.Answer,
		Identity:   middleware.IdentityFrom(c),
	})

	switch result.Status {
	case services.SubmitOK:
		c.JSON(http.StatusCreated, gin.H{"comment": result.Comment})
	case services.SubmitRateLimited:
		Error(c, http.StatusTooManyRequests, result.Message)
	case services.SubmitNotFound:
		Error(c, http.StatusNotFound, result.Message)
	case services.SubmitInternal:
		Error(c, http.StatusInternalServerError, result.Message)
	default: // captcha or validation failure
		Error(c, http.StatusBadRequest, result.Message)
	}
}

// List returns one page of a post's thread plus the ids the requester is
// currently entitled to delete.
func (h *CommentHandler) List(c *gin.Context) {
	postID := c.Query("post_id")
	if postID == "" {
		Error(c, http.StatusBadRequest, "post_id is required")
		return
	}
	page := utils.ParsePage(c.Query("page"))
	limit := utils.ParseLimit(c.Query("limit"), 20, 100)

	// Opportunistic cleanup on the read path.
	h.grantService.SweepExpired()

	thread, err := h.commentService.ListForPost(postID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			Error(c, http.StatusNotFound, "post not found")
			return
		}
		slog.Error("comment listing failed", "post_id", postID, "error", err)
		Error(c, http.StatusInternalServerError, "could not load comments")
		return
	}

	commentIDs := make([]string, 0, len(thread.Comments))
	for _, root := range thread.Comments {
		commentIDs = append(commentIDs, root.ID)
		for _, reply := range root.Replies {
			commentIDs = append(commentIDs, reply.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": thread.Comments,
		"pagination": Pagination{
			Page:       thread.Page,
			Limit:      thread.Limit,
			Total:      thread.Total,
			TotalPages: thread.TotalPages,
		},
		"deletable_ids": h.grantService.DeletableIDs(commentIDs, middleware.IdentityFrom(c)),
	})
}

// Delete soft-deletes a comment if the requester holds a grant or is admin.
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID := c.Param("id")

	switch h.intake.Delete(commentID, middleware.IdentityFrom(c), middleware.IsAdmin(c)) {
	case services.DeleteOK:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case services.DeleteNotFound:
		Error(c, http.StatusNotFound, "comment not found")
	case services.DeleteForbidden:
		Error(c, http.StatusForbidden, "not allowed to delete this comment")
	default:
		Error(c, http.StatusInternalServerError, "could not delete comment")
	}
}
