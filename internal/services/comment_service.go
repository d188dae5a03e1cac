package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	authorNameMin = 2
	authorNameMax = 30
	contentMin    = 5
	contentMax    = 500
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// ValidationError identifies the offending field so handlers can report it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ThreadPage is one page of a post's comment thread: roots newest-first, each
// root carrying its replies oldest-first.
type ThreadPage struct {
	Comments   []models.Comment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentService validates, persists and retrieves the two-level comment
// hierarchy.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb, now: time.Now}
}

// Create validates and persists a comment. A reply whose parent is itself a
// reply gets re-parented onto the nearest top-level ancestor, so stored depth
// never exceeds two.
func (s *CommentService) Create(postID string, parentID *string, authorName, content string) (*models.Comment, error) {
	authorName = strings.TrimSpace(authorName)
	content = strings.TrimSpace(utils.SanitizeComment(content))

	if n := utf8.RuneCountInString(authorName); n < authorNameMin || n > authorNameMax {
		return nil, &ValidationError{Field: "author_name", Message: fmt.Sprintf("must be %d-%d characters", authorNameMin, authorNameMax)}
	}
	if n := utf8.RuneCountInString(content); n < contentMin || n > contentMax {
		return nil, &ValidationError{Field: "content", Message: fmt.Sprintf("must be %d-%d characters", contentMin, contentMax)}
	}

	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}
	if !post.Visible() {
		return nil, ErrPostNotFound
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, "id = ?", *parentID).Error; err != nil {
			return nil, ErrParentNotFound
		}
		if parent.PostID != postID || parent.IsDeleted() {
			return nil, ErrParentNotFound
		}
		if parent.ParentID != nil {
			// Reply to a reply: attach to the thread root instead.
			parentID = parent.ParentID
		}
	}

	comment := models.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		ParentID:   parentID,
		AuthorName: authorName,
		Content:    content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Get fetches a single comment by id, deleted or not.
func (s *CommentService) Get(commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		return nil, ErrCommentNotFound
	}
	return &comment, nil
}

// ListForPost pages through root comments newest-first, then loads all replies
// for the roots on the page oldest-first, so each thread reads top to bottom.
func (s *CommentService) ListForPost(postID string, page, limit int) (*ThreadPage, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}
	if !post.Visible() {
		return nil, ErrPostNotFound
	}

	var total int64
	s.db.Model(&models.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Count(&total)

	var roots []models.Comment
	if err := s.db.
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&roots).Error; err != nil {
		return nil, err
	}

	if len(roots) > 0 {
		rootIDs := make([]string, len(roots))
		for i, root := range roots {
			rootIDs[i] = root.ID
		}

		var replies []models.Comment
		if err := s.db.
			Where("parent_id IN ?", rootIDs).
			Order("created_at ASC").
			Find(&replies).Error; err != nil {
			return nil, err
		}

		repliesByParent := make(map[string][]models.Comment)
		for _, reply := range replies {
			repliesByParent[*reply.ParentID] = append(repliesByParent[*reply.ParentID], reply)
		}
		for i := range roots {
			roots[i].Replies = repliesByParent[roots[i].ID]
		}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages == 0 {
		totalPages = 1
	}

	return &ThreadPage{
		Comments:   roots,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// SoftDelete replaces the content with a placeholder and stamps deleted_at.
// Replies are untouched; they keep rendering under a "[deleted]" parent.
func (s *CommentService) SoftDelete(commentID string) error {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		return ErrCommentNotFound
	}
	if comment.IsDeleted() {
		return nil
	}

	now := s.now()
	return s.db.Model(&comment).Updates(map[string]interface{}{
		"content":    models.DeletedPlaceholder,
		"deleted_at": now,
	}).Error
}

// CountForPosts 批量填充帖子的评论数量
func (s *CommentService) CountForPosts(postIDs []string) map[string]int {
	countMap := make(map[string]int)
	if len(postIDs) == 0 {
		return countMap
	}

	type countResult struct {
		PostID string
		Count  int
	}
	var results []countResult
	s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	return countMap
}

// ListAll pages through every comment on the site, newest first, soft-deleted
// rows included. Admin moderation view.
func (s *CommentService) ListAll(page, limit int) ([]models.Comment, int64, error) {
	var total int64
	s.db.Model(&models.Comment{}).Count(&total)

	var comments []models.Comment
	err := s.db.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&comments).Error
	return comments, total, err
}
