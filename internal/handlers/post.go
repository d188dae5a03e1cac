package handlers

import (
	"math"
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	db             *gorm.DB
	commentService *services.CommentService
}

func NewPostHandler(gdb *gorm.DB, commentService *services.CommentService) *PostHandler {
	return &PostHandler{db: gdb, commentService: commentService}
}

// List returns published posts newest-first, optionally filtered by category
// or tag name.
func (h *PostHandler) List(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	limit := utils.ParseLimit(c.Query("limit"), 20, 100)

	query := h.db.Model(&models.Post{}).
		Where("published = ? AND deleted_at IS NULL", true)

	if category := c.Query("category"); category != "" {
		query = query.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.name = ?", category)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var total int64
	query.Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	query.Preload("Category").Preload("Tags").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts)

	h.fillCommentCounts(posts)

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"pagination": Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Detail returns one published post with rendered HTML and bumps the view
// counter.
func (h *PostHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := h.db.Preload("Category").Preload("Tags").
		Where("slug = ?", slug).First(&post).Error; err != nil {
		Error(c, http.StatusNotFound, "post not found")
		return
	}
	if !post.Visible() {
		Error(c, http.StatusNotFound, "post not found")
		return
	}

	h.db.Model(&post).UpdateColumn("views", gorm.Expr("views + 1"))
	post.Views++

	post.ContentHTML = utils.RenderMarkdown(post.Content)
	counts := h.commentService.CountForPosts([]string{post.ID})
	post.CommentCount = counts[post.ID]

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Categories lists every category.
func (h *PostHandler) Categories(c *gin.Context) {
	var categories []models.Category
	h.db.Order("id ASC").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Tags lists every tag.
func (h *PostHandler) Tags(c *gin.Context) {
	var tags []models.Tag
	h.db.Order("name ASC").Find(&tags)
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *PostHandler) fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	countMap := h.commentService.CountForPosts(postIDs)
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}
