package handler

import (
	"errors"
	"net/http"

	"arar/internal/middleware"
	"arar/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	authSvc *service.AuthService
}

func NewAdminHandler(authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{authSvc: authSvc}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	token, err := h.authSvc.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCreds):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Account is inactive"})
		return
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Register handles POST /api/admin/register. Only existing admins may create new ones.
func (h *AdminHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		FullName string `json:"full_name" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	_, err := h.authSvc.Register(req.Email, req.FullName, req.Password, req.Role)
	if errors.Is(err, service.ErrEmailExists) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not create admin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin user created successfully", "email": req.Email})
}

// Me handles GET /api/admin/me.
func (h *AdminHandler) Me(c *gin.Context) {
	a := middleware.CurrentAdmin(c)
	c.JSON(http.StatusOK, gin.H{"email": a.Email, "full_name": a.FullName, "role": a.Role})
}
