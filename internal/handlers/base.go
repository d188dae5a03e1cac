package handlers

import (
	"github.com/gin-gonic/gin"
)

// Error writes the uniform error envelope.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// Pagination is the envelope attached to every paged listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
