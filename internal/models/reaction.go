package models

import (
	"time"
)

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction records at most one row per (comment, identity). The unique index is
// what keeps two concurrent reactions from the same identity from both inserting.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID string    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_comment_identity" json:"comment_id"`
	Identity  string    `gorm:"size:64;not null;uniqueIndex:idx_reaction_comment_identity" json:"-"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidReactionType(t string) bool {
	return t == ReactionLike || t == ReactionDislike
}
