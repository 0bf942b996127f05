package handler

import (
	"net/http"
	"strings"

	"arar/internal/domain"
	"arar/internal/repository"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *repository.OrderRepository
}

func NewOrderHandler(orders *repository.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/admin/orders?status=.
func (h *OrderHandler) List(c *gin.Context) {
	list, err := h.orders.List(c.Query("status"), adminListLimit)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not list orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.GetByID(c.Param("id"))
	if err != nil {
		notFoundOr500(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status?status=.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	status := c.Query("status")
	if !domain.Contains(domain.AdminOrderStatuses, status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid status. Must be one of: " + strings.Join(domain.AdminOrderStatuses, ", "),
		})
		return
	}
	if err := h.orders.UpdateStatus(c.Param("id"), status); err != nil {
		notFoundOr500(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "status": status})
}
