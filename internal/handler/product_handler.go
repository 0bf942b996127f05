package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"arar/internal/domain"
	"arar/internal/models"
	"arar/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const adminListLimit = 1000

type ProductHandler struct {
	products *repository.ProductRepository
}

func NewProductHandler(products *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

type productCreateRequest struct {
	Name             string   `json:"name" binding:"required"`
	Slug             string   `json:"slug" binding:"required"`
	ShortDescription string   `json:"short_description" binding:"required"`
	LongDescription  string   `json:"long_description" binding:"required"`
	Price            string   `json:"price" binding:"required"`
	PriceAmount      int64    `json:"price_amount" binding:"required"`
	Currency         string   `json:"currency"`
	StockQuantity    int      `json:"stock_quantity"`
	IsLimited        bool     `json:"is_limited"`
	BatchNumber      *string  `json:"batch_number"`
	Status           string   `json:"status"`
	HeroImageURL     string   `json:"hero_image_url" binding:"required"`
	GalleryImages    []string `json:"gallery_images"`
	NotesTop         []string `json:"notes_top"`
	NotesHeart       []string `json:"notes_heart"`
	NotesBase        []string `json:"notes_base"`
	Identity         string   `json:"identity"`
	Ritual           string   `json:"ritual"`
	Craft            string   `json:"craft"`
	CollectionID     *string  `json:"collection_id"`
}

// productUpdateRequest carries only the fields being changed.
type productUpdateRequest struct {
	Name             *string   `json:"name"`
	Slug             *string   `json:"slug"`
	ShortDescription *string   `json:"short_description"`
	LongDescription  *string   `json:"long_description"`
	Price            *string   `json:"price"`
	PriceAmount      *int64    `json:"price_amount"`
	Currency         *string   `json:"currency"`
	StockQuantity    *int      `json:"stock_quantity"`
	IsLimited        *bool     `json:"is_limited"`
	BatchNumber      *string   `json:"batch_number"`
	Status           *string   `json:"status"`
	HeroImageURL     *string   `json:"hero_image_url"`
	GalleryImages    *[]string `json:"gallery_images"`
	NotesTop         *[]string `json:"notes_top"`
	NotesHeart       *[]string `json:"notes_heart"`
	NotesBase        *[]string `json:"notes_base"`
	Identity         *string   `json:"identity"`
	Ritual           *string   `json:"ritual"`
	Craft            *string   `json:"craft"`
	CollectionID     *string   `json:"collection_id"`
}

func (r *productUpdateRequest) fields() map[string]interface{} {
	f := map[string]interface{}{}
	put := func(col string, ok bool, v interface{}) {
		if ok {
			f[col] = v
		}
	}
	put("name", r.Name != nil, deref(r.Name))
	put("slug", r.Slug != nil, deref(r.Slug))
	put("short_description", r.ShortDescription != nil, deref(r.ShortDescription))
	put("long_description", r.LongDescription != nil, deref(r.LongDescription))
	put("price", r.Price != nil, deref(r.Price))
	if r.PriceAmount != nil {
		f["price_amount"] = *r.PriceAmount
	}
	put("currency", r.Currency != nil, deref(r.Currency))
	if r.StockQuantity != nil {
		f["stock_quantity"] = *r.StockQuantity
	}
	if r.IsLimited != nil {
		f["is_limited"] = *r.IsLimited
	}
	put("batch_number", r.BatchNumber != nil, r.BatchNumber)
	put("status", r.Status != nil, deref(r.Status))
	put("hero_image_url", r.HeroImageURL != nil, deref(r.HeroImageURL))
	// Map updates bypass the json serializer, so encode list columns here.
	if r.GalleryImages != nil {
		f["gallery_images"] = jsonList(*r.GalleryImages)
	}
	if r.NotesTop != nil {
		f["notes_top"] = jsonList(*r.NotesTop)
	}
	if r.NotesHeart != nil {
		f["notes_heart"] = jsonList(*r.NotesHeart)
	}
	if r.NotesBase != nil {
		f["notes_base"] = jsonList(*r.NotesBase)
	}
	put("identity", r.Identity != nil, deref(r.Identity))
	put("ritual", r.Ritual != nil, deref(r.Ritual))
	put("craft", r.Craft != nil, deref(r.Craft))
	put("collection_id", r.CollectionID != nil, r.CollectionID)
	return f
}

func jsonList(list []string) string {
	b, _ := json.Marshal(nonNil(list))
	return string(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// List handles GET /api/admin/products (drafts included).
func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.products.ListAll(adminListLimit)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/admin/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = domain.ProductPublished
	}
	if !domain.Contains(domain.ProductStatuses, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid status"})
		return
	}
	if _, err := h.products.GetBySlug(req.Slug); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Product with this slug already exists"})
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	p := &models.Product{
		Name:             req.Name,
		Slug:             req.Slug,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		PriceAmount:      req.PriceAmount,
		Currency:         req.Currency,
		StockQuantity:    req.StockQuantity,
		IsLimited:        req.IsLimited,
		BatchNumber:      req.BatchNumber,
		Status:           req.Status,
		HeroImageURL:     req.HeroImageURL,
		GalleryImages:    nonNil(req.GalleryImages),
		NotesTop:         nonNil(req.NotesTop),
		NotesHeart:       nonNil(req.NotesHeart),
		NotesBase:        nonNil(req.NotesBase),
		Identity:         req.Identity,
		Ritual:           req.Ritual,
		Craft:            req.Craft,
		CollectionID:     req.CollectionID,
	}
	if err := h.products.Create(p); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not create product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product created successfully", "id": p.ID, "slug": p.Slug})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Get handles GET /api/admin/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.GetByID(c.Param("id"))
	if err != nil {
		notFoundOr500(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/admin/products/:id with a partial body.
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	existing, err := h.products.GetByID(id)
	if err != nil {
		notFoundOr500(c, err, "Product not found")
		return
	}
	if req.Slug != nil && *req.Slug != "" && *req.Slug != existing.Slug {
		if _, err := h.products.GetBySlug(*req.Slug); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Slug already in use"})
			return
		}
	}
	if req.Status != nil && !domain.Contains(domain.ProductStatuses, *req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid status"})
		return
	}
	fields := req.fields()
	fields["updated_at"] = time.Now()
	if err := h.products.Updates(id, fields); err != nil {
		notFoundOr500(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "id": id})
}

// Delete handles DELETE /api/admin/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Param("id")); err != nil {
		notFoundOr500(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UpdateStock handles PATCH /api/admin/products/:id/stock.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var req struct {
		StockQuantity *int `json:"stock_quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	err := h.products.Updates(c.Param("id"), map[string]interface{}{
		"stock_quantity": *req.StockQuantity,
		"updated_at":     time.Now(),
	})
	if err != nil {
		notFoundOr500(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "stock_quantity": *req.StockQuantity})
}

// UpdateStatus handles PATCH /api/admin/products/:id/status.
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if !domain.Contains(domain.ProductStatuses, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid status"})
		return
	}
	err := h.products.Updates(c.Param("id"), map[string]interface{}{
		"status":     req.Status,
		"updated_at": time.Now(),
	})
	if err != nil {
		notFoundOr500(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully", "status": req.Status})
}

func notFoundOr500(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
		return
	}
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}
