package handler

import (
	"net/http"

	"arar/internal/models"
	"arar/internal/repository"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collections *repository.CollectionRepository
}

func NewCollectionHandler(collections *repository.CollectionRepository) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) List(c *gin.Context) {
	list, err := h.collections.List(100)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not list collections"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description" binding:"required"`
		Featured    bool   `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	col := &models.Collection{Name: req.Name, Description: req.Description, Featured: req.Featured}
	if err := h.collections.Create(col); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not create collection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection created successfully", "id": col.ID})
}

func (h *CollectionHandler) Update(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Featured    *bool   `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Featured != nil {
		fields["featured"] = *req.Featured
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No fields to update"})
		return
	}
	if err := h.collections.Updates(c.Param("id"), fields); err != nil {
		notFoundOr500(c, err, "Collection not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection updated successfully"})
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.collections.Delete(c.Param("id")); err != nil {
		notFoundOr500(c, err, "Collection not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted successfully"})
}
