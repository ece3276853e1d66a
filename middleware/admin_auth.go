package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAuth guards admin routes with a static bearer key. The comparison is
// constant time so response timing leaks nothing about the key. A bad or
// missing key aborts before any handler side effects.
func AdminAuth(adminKey string) gin.HandlerFunc {
	expected := []byte("Bearer " + adminKey)
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || subtle.ConstantTimeCompare([]byte(auth), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
