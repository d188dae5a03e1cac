package services

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/models"
)

// SubmitStatus discriminates every outcome of a comment submission. The
// orchestrator never returns a raw error across this boundary.
type SubmitStatus int

const (
	SubmitOK SubmitStatus = iota
	SubmitCaptchaFailed
	SubmitRateLimited
	SubmitInvalid
	SubmitNotFound
	SubmitInternal
)

type SubmitInput struct {
	PostID     string
	ParentID   *string
	AuthorName string
	Content    string
	SessionID  string
	Answer     *int
	Identity   string
}

type SubmitResult struct {
	Status  SubmitStatus
	Message string
	Comment *models.Comment
}

// DeleteStatus covers the symmetric capability-check → delete path.
type DeleteStatus int

const (
	DeleteOK DeleteStatus = iota
	DeleteForbidden
	DeleteNotFound
	DeleteInternal
)

// CommentIntake sequences Challenge → Rate Limit → Validation → Persistence →
// Capability Grant for one incoming comment.
type CommentIntake struct {
	captcha  *CaptchaService
	limiter  RateLimiter
	comments *CommentService
	grants   *GrantService
}

func NewCommentIntake(captcha *CaptchaService, limiter RateLimiter, comments *CommentService, grants *GrantService) *CommentIntake {
	return &CommentIntake{
		captcha:  captcha,
		limiter:  limiter,
		comments: comments,
		grants:   grants,
	}
}

// Submit runs the full intake pipeline. The challenge is consumed exactly once
// per call, pass or fail, so neither a wrong answer nor a successful post can
// be replayed against the same session id.
func (o *CommentIntake) Submit(ctx context.Context, in SubmitInput) SubmitResult {
	if in.SessionID == "" || in.Answer == nil {
		return SubmitResult{Status: SubmitCaptchaFailed, Message: "captcha required"}
	}

	verification := o.captcha.Verify(ctx, in.SessionID, *in.Answer)
	consumed := o.captcha.Consume(ctx, in.SessionID)
	if verification != VerifyOK || !consumed {
		// Deliberately uninformative: don't tell a prober which part failed.
		return SubmitResult{Status: SubmitCaptchaFailed, Message: "captcha verification failed, request a new challenge"}
	}

	if !o.limiter.TryAcquire(ctx, in.Identity) {
		return SubmitResult{Status: SubmitRateLimited, Message: "too many comments, try again later"}
	}

	comment, err := o.comments.Create(in.PostID, in.ParentID, in.AuthorName, in.Content)
	if err != nil {
		var validation *ValidationError
		switch {
		case errors.As(err, &validation):
			return SubmitResult{Status: SubmitInvalid, Message: validation.Error()}
		case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrParentNotFound):
			return SubmitResult{Status: SubmitNotFound, Message: err.Error()}
		default:
			slog.Error("comment persistence failed", "post_id", in.PostID, "error", err)
			return SubmitResult{Status: SubmitInternal, Message: "could not save comment"}
		}
	}

	if err := o.grants.Grant(comment.ID, in.Identity); err != nil {
		// The comment stays; it just degrades to admin-only deletion.
		slog.Warn("deletion grant creation failed", "comment_id", comment.ID, "error", err)
	}

	return SubmitResult{Status: SubmitOK, Comment: comment}
}

// Delete soft-deletes a comment when the acting identity holds an unexpired
// grant for it, or when the actor is an admin.
func (o *CommentIntake) Delete(commentID, identity string, isAdmin bool) DeleteStatus {
	comment, err := o.comments.Get(commentID)
	if err != nil || comment.IsDeleted() {
		return DeleteNotFound
	}

	if !o.grants.CanDelete(commentID, identity, isAdmin) {
		return DeleteForbidden
	}

	if err := o.comments.SoftDelete(commentID); err != nil {
		slog.Error("comment soft delete failed", "comment_id", commentID, "error", err)
		return DeleteInternal
	}
	o.grants.Revoke(commentID)
	return DeleteOK
}
