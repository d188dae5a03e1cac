package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const AdminSessionKey = "is_admin"

// AdminRequired gates the admin API on the session flag set at login.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// IsAdmin reports whether the current session is an authenticated admin.
func IsAdmin(c *gin.Context) bool {
	session := sessions.Default(c)
	flag, ok := session.Get(AdminSessionKey).(bool)
	return ok && flag
}
