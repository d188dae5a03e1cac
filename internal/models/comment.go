package models

import (
	"time"
)

// DeletedPlaceholder replaces the content of a soft-deleted comment. The row is
// retained so replies keep a parent to hang off.
const DeletedPlaceholder = "[deleted]"

type Comment struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	PostID string `gorm:"type:uuid;not null;index" json:"post_id"`
	// Nullable for top-level comments. Always points at a root comment: the store
	// only distinguishes "root" vs "reply", deeper chains are a display concern.
	ParentID   *string    `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	AuthorName string     `gorm:"size:30;not null" json:"author_name"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	// 非数据库字段，查询时填充
	Replies []Comment `gorm:"-" json:"replies,omitempty"`
}

func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
