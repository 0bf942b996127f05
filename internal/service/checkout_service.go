package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arar/internal/confirm"
	"arar/internal/domain"
	"arar/internal/metrics"
	"arar/internal/models"
	"arar/internal/repository"
	"arar/pkg/payment"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("this item is currently out of stock")
	ErrPricing         = errors.New("product pricing error")
	ErrGateway         = errors.New("payment gateway unavailable")
)

type CheckoutService struct {
	products *repository.ProductRepository
	orders   *repository.OrderRepository
	provider payment.Provider
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewCheckoutService(products *repository.ProductRepository, orders *repository.OrderRepository, provider payment.Provider, m *metrics.Metrics, log *zap.Logger) *CheckoutService {
	return &CheckoutService{products: products, orders: orders, provider: provider, metrics: m, log: log}
}

// CreateSession opens a gateway checkout for one unit of a published product.
// The charged amount always comes from the catalog. The order is recorded
// before the caller redirects the shopper.
func (s *CheckoutService) CreateSession(ctx context.Context, slug, originURL string) (*payment.CheckoutSession, error) {
	p, err := s.products.GetPublishedBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if p.StockQuantity <= 0 {
		return nil, ErrOutOfStock
	}
	if p.PriceAmount <= 0 {
		s.log.Error("invalid price_amount", zap.String("product_id", p.ID), zap.Int64("price_amount", p.PriceAmount))
		return nil, ErrPricing
	}

	origin := strings.TrimRight(originURL, "/")
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	batch := ""
	if p.BatchNumber != nil {
		batch = *p.BatchNumber
	}
	meta := map[string]string{
		"product_id":        p.ID,
		"product_slug":      p.Slug,
		"product_name":      p.Name,
		"batch_number":      batch,
		"price_at_checkout": fmt.Sprintf("%d", p.PriceAmount),
	}
	sess, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		AmountCents: p.PriceAmount,
		Currency:    currency,
		ProductName: p.Name,
		SuccessURL:  origin + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/fragrance/" + p.Slug,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Error("create checkout session failed", zap.String("product_id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	order := &models.Order{
		SessionID:     sess.SessionID,
		ProductID:     p.ID,
		ProductSlug:   p.Slug,
		Amount:        float64(p.PriceAmount) / 100,
		AmountCents:   p.PriceAmount,
		Currency:      strings.ToUpper(currency),
		PaymentStatus: domain.PaymentInitiated,
		Status:        domain.OrderPending,
		Metadata:      meta,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	s.metrics.CheckoutSessions.Inc()
	s.log.Info("checkout session created", zap.String("session_id", sess.SessionID), zap.String("product_id", p.ID))
	return sess, nil
}

// CheckoutStatus reads the session from the gateway and settles the local
// order: paid marks the order and takes stock once, expired marks it expired.
// It satisfies confirm.StatusQuerier so the live confirmation stream can poll
// it in-process.
func (s *CheckoutService) CheckoutStatus(ctx context.Context, sessionID string) (*confirm.Status, error) {
	st, err := s.provider.GetCheckoutStatus(ctx, sessionID)
	if err != nil {
		s.metrics.StatusQueries.WithLabelValues("error").Inc()
		s.log.Error("checkout status lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	s.metrics.StatusQueries.WithLabelValues(st.PaymentStatus).Inc()

	order, err := s.orders.GetBySessionID(sessionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if order != nil {
		if order.PaymentStatus == domain.PaymentPaid {
			return &confirm.Status{
				Status:        st.Status,
				PaymentStatus: domain.PaymentPaid,
				Message:       "Payment already processed",
			}, nil
		}
		switch {
		case st.PaymentStatus == domain.PaymentPaid:
			if err := s.markPaid(sessionID, "status"); err != nil {
				return nil, err
			}
		case st.Status == domain.SessionExpired:
			if err := s.orders.MarkExpired(sessionID); err != nil {
				return nil, err
			}
			s.log.Info("checkout session expired", zap.String("session_id", sessionID))
		}
	}
	return &confirm.Status{
		Status:        st.Status,
		PaymentStatus: st.PaymentStatus,
		AmountTotal:   st.AmountTotal,
		Currency:      st.Currency,
	}, nil
}

// HandleWebhook applies a gateway event. Only paid checkout sessions change state.
func (s *CheckoutService) HandleWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	ev, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return nil, err
	}
	s.log.Info("webhook received", zap.String("type", ev.Type), zap.String("session_id", ev.SessionID))
	if ev.SessionID == "" || ev.PaymentStatus != domain.PaymentPaid {
		return ev, nil
	}
	order, err := s.orders.GetBySessionID(ev.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ev, nil
		}
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return ev, nil
	}
	return ev, s.markPaid(ev.SessionID, "webhook")
}

func (s *CheckoutService) markPaid(sessionID, source string) error {
	marked, stockReduced, err := s.orders.MarkPaid(sessionID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !marked {
		return nil
	}
	s.metrics.PaymentsCompleted.WithLabelValues(source).Inc()
	if !stockReduced {
		s.log.Warn("stock not reduced, product may be out of stock", zap.String("session_id", sessionID))
	}
	s.log.Info("payment completed", zap.String("session_id", sessionID), zap.String("source", source))
	return nil
}
