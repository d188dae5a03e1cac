package middleware

import (
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

const IdentityKey = "identity"

// Identity derives the pseudonymous token for the requesting address and
// stashes it on the context. Every rate-limit, grant and reaction lookup keys
// off this token; the raw address goes no further.
func Identity(hasher *services.IdentityHasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IdentityKey, hasher.Identify(c.ClientIP()))
		c.Next()
	}
}

// IdentityFrom returns the token set by Identity, or "" if the middleware
// didn't run.
func IdentityFrom(c *gin.Context) string {
	if v, ok := c.Get(IdentityKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
