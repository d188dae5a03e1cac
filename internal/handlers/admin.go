package handlers

import (
	"net/http"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler backs the admin dashboard API: session login plus CRUD over
// posts, categories, tags, and comment moderation.
type AdminHandler struct {
	db             *gorm.DB
	commentService *services.CommentService
	// bcrypt hash of the configured admin password; empty disables login.
	passwordHash string
}

func NewAdminHandler(gdb *gorm.DB, commentService *services.CommentService, adminPassword string) (*AdminHandler, error) {
	h := &AdminHandler{db: gdb, commentService: commentService}
	if adminPassword != "" {
		hash, err := utils.HashPassword(adminPassword)
		if err != nil {
			return nil, err
		}
		h.passwordHash = hash
	}
	return h, nil
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		Error(c, http.StatusBadRequest, "password is required")
		return
	}

	if h.passwordHash == "" || !utils.CheckPassword(req.Password, h.passwordHash) {
		Error(c, http.StatusForbidden, "invalid credentials")
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.AdminSessionKey, true)
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.AdminSessionKey)
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type postRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID uint   `json:"category_id"`
	Published  bool   `json:"published"`
	TagIDs     []uint `json:"tag_ids"`
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		Error(c, http.StatusBadRequest, "title is required")
		return
	}
	if req.CategoryID == 0 {
		req.CategoryID = 1
	}

	post := models.Post{
		ID:         uuid.NewString(),
		Slug:       utils.Slugify(req.Title),
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Published:  req.Published,
	}
	if err := h.db.Create(&post).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not create post")
		return
	}
	h.replaceTags(&post, req.TagIDs)

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		Error(c, http.StatusNotFound, "post not found")
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		Error(c, http.StatusBadRequest, "title is required")
		return
	}

	post.Title = req.Title
	post.Content = req.Content
	if req.CategoryID != 0 {
		post.CategoryID = req.CategoryID
	}
	post.Published = req.Published

	if err := h.db.Save(&post).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not update post")
		return
	}
	h.replaceTags(&post, req.TagIDs)

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost soft-deletes so existing comment threads keep their anchor row.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		Error(c, http.StatusNotFound, "post not found")
		return
	}

	now := time.Now()
	if err := h.db.Model(&post).Update("deleted_at", now).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		Error(c, http.StatusBadRequest, "name is required")
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&category).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not create category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id := utils.StringToInt(c.Param("id"))

	var count int64
	h.db.Model(&models.Post{}).Where("category_id = ?", id).Count(&count)
	if count > 0 {
		Error(c, http.StatusBadRequest, "category still has posts")
		return
	}

	if err := h.db.Delete(&models.Category{}, id).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type tagRequest struct {
	Name string `json:"name"`
}

func (h *AdminHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		Error(c, http.StatusBadRequest, "name is required")
		return
	}

	tag := models.Tag{Name: req.Name}
	if err := h.db.Create(&tag).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not create tag")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

func (h *AdminHandler) DeleteTag(c *gin.Context) {
	if err := h.db.Delete(&models.Tag{}, utils.StringToInt(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusInternalServerError, "could not delete tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListComments shows every comment, soft-deleted included, for moderation.
func (h *AdminHandler) ListComments(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	limit := utils.ParseLimit(c.Query("limit"), 50, 200)

	comments, total, err := h.commentService.ListAll(page, limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, "could not load comments")
		return
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 || totalPages == 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"pagination": Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (h *AdminHandler) replaceTags(post *models.Post, tagIDs []uint) {
	if tagIDs == nil {
		return
	}
	var tags []models.Tag
	h.db.Find(&tags, tagIDs)
	h.db.Model(post).Association("Tags").Replace(tags)
	post.Tags = tags
}
