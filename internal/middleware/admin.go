package middleware

import (
	"net/http"

	"arar/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRole checks the role of the admin set by AdminRequired.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := CurrentAdmin(c)
		if a == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		if !domain.Contains(allowed, a.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
