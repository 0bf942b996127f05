package middleware

import (
	"errors"
	"net/http"
	"strings"

	"arar/internal/models"
	"arar/internal/service"

	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// AdminRequired validates the bearer token, loads the admin it names and
// sets it in context. Inactive accounts are refused.
func AdminRequired(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization format"})
			return
		}
		admin, err := authSvc.Authenticate(parts[1])
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Admin not found"})
			return
		case errors.Is(err, service.ErrAccountInactive):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Inactive admin account"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		c.Set(adminKey, admin)
		c.Next()
	}
}

// CurrentAdmin returns the admin set by AdminRequired.
func CurrentAdmin(c *gin.Context) *models.AdminUser {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil
	}
	a, _ := v.(*models.AdminUser)
	return a
}
