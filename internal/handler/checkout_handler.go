package handler

import (
	"errors"
	"io"
	"net/http"

	"arar/internal/service"
	"arar/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

// CreateSession handles POST /api/create-checkout-session. The price is read
// from the catalog; the client only names the fragrance and its own origin.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req struct {
		FragranceSlug string `json:"fragrance_slug" binding:"required"`
		OriginURL     string `json:"origin_url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	sess, err := h.checkout.CreateSession(c.Request.Context(), req.FragranceSlug, req.OriginURL)
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	case errors.Is(err, service.ErrOutOfStock):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "This item is currently out of stock"})
		return
	case errors.Is(err, service.ErrPricing):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Product pricing error"})
		return
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to create checkout session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.SessionID, "url": sess.URL})
}

// Status handles GET /api/checkout/status/:session_id, the endpoint polled by
// the confirmation page.
func (h *CheckoutHandler) Status(c *gin.Context) {
	st, err := h.checkout.CheckoutStatus(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unable to check payment status"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// StripeWebhook handles POST /api/webhook/stripe. The gateway always gets a
// 200 so it does not retry events we chose to ignore.
func (h *CheckoutHandler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "received", "error": "invalid body"})
		return
	}
	if _, err := h.checkout.HandleWebhook(body, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.log.Warn("webhook signature rejected", zap.String("ip", c.ClientIP()))
		} else {
			h.log.Error("webhook error", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"status": "received", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
