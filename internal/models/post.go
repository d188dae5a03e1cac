package models

import (
	"html/template"
	"time"
)

type Post struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug       string    `gorm:"uniqueIndex;size:80;not null" json:"slug"`
	CategoryID uint      `gorm:"not null;index;default:1" json:"category_id"`
	Category   Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	Published  bool      `gorm:"default:false;index" json:"published"`
	Views      int       `gorm:"default:0" json:"views"`
	Tags       []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	// Soft delete. Kept as a plain column so admin listings can still show the row.
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	// 非数据库字段，查询时填充
	CommentCount int           `gorm:"-" json:"comment_count"`
	ContentHTML  template.HTML `gorm:"-" json:"content_html,omitempty"`
}

func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}

// Visible reports whether the post can be read (and commented on) publicly.
func (p *Post) Visible() bool {
	return p.Published && !p.IsDeleted()
}
