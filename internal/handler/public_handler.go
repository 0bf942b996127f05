package handler

import (
	"errors"
	"net/http"
	"strings"

	"arar/internal/models"
	"arar/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PublicHandler struct {
	products   *repository.ProductRepository
	engagement *repository.EngagementRepository
}

func NewPublicHandler(products *repository.ProductRepository, engagement *repository.EngagementRepository) *PublicHandler {
	return &PublicHandler{products: products, engagement: engagement}
}

func (h *PublicHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ARAR Parfums API"})
}

func (h *PublicHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "2.0.0"})
}

// Fragrances handles GET /api/fragrances (published only).
func (h *PublicHandler) Fragrances(c *gin.Context) {
	list, err := h.products.ListPublished(100)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not list fragrances"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PublicHandler) Fragrance(c *gin.Context) {
	p, err := h.products.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		notFoundOr500(c, err, "Fragrance not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Newsletter handles POST /api/newsletter.
func (h *PublicHandler) Newsletter(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := h.engagement.IsSubscribed(email)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not subscribe"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already subscribed"})
		return
	}
	if err := h.engagement.Subscribe(&models.NewsletterSubscription{Email: email}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already subscribed"})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not subscribe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully subscribed", "email": email})
}

// Contact handles POST /api/contact.
func (h *PublicHandler) Contact(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	inq := &models.ContactInquiry{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.engagement.CreateInquiry(inq); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not record inquiry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry received", "id": inq.ID})
}
