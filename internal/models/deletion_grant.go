package models

import (
	"time"
)

// DeletionGrant is the time-boxed capability letting a comment's anonymous author
// delete it without an account. One grant per comment, bound to the identity token
// that created the comment. Expired rows are swept lazily.
type DeletionGrant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID string    `gorm:"type:uuid;not null;uniqueIndex" json:"comment_id"`
	Identity  string    `gorm:"size:64;not null;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (g *DeletionGrant) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
