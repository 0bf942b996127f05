package service

import (
	"context"
	"testing"

	"arar/internal/confirm"
	"arar/internal/database/dbtest"
	"arar/internal/domain"
	"arar/internal/metrics"
	"arar/internal/models"
	"arar/internal/repository"
	"arar/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db       *gorm.DB
	svc      *CheckoutService
	stub     *payment.StubProvider
	products *repository.ProductRepository
	orders   *repository.OrderRepository
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	db := dbtest.New(t)
	f := &checkoutFixture{
		db:       db,
		stub:     payment.NewStubProvider("whsec_test"),
		products: repository.NewProductRepository(db),
		orders:   repository.NewOrderRepository(db),
	}
	f.svc = NewCheckoutService(f.products, f.orders, f.stub, metrics.NewNop(), zap.NewNop())
	return f
}

func (f *checkoutFixture) product(t *testing.T, slug string, stock int, price int64, status string) *models.Product {
	batch := "B-07"
	p := &models.Product{Name: "Ambre Sacré", Slug: slug, PriceAmount: price, Currency: "USD",
		StockQuantity: stock, Status: status, BatchNumber: &batch}
	require.NoError(t, f.products.Create(p))
	return p
}

func TestCreateSession_RecordsOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.product(t, "ambre-sacre", 4, 21000, domain.ProductPublished)

	sess, err := f.svc.CreateSession(context.Background(), "ambre-sacre", "https://arar.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://arar.example/success?session_id="+sess.SessionID, sess.URL)

	o, err := f.orders.GetBySessionID(sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, o.ProductID)
	assert.Equal(t, int64(21000), o.AmountCents)
	assert.InDelta(t, 210.0, o.Amount, 0.001)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, domain.PaymentInitiated, o.PaymentStatus)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, "21000", o.Metadata["price_at_checkout"])
	assert.Equal(t, "B-07", o.Metadata["batch_number"])
}

func TestCreateSession_Rejections(t *testing.T) {
	f := newCheckoutFixture(t)
	f.product(t, "draft-one", 3, 10000, domain.ProductDraft)
	f.product(t, "sold-out", 0, 10000, domain.ProductPublished)
	f.product(t, "free", 3, 0, domain.ProductPublished)

	ctx := context.Background()
	_, err := f.svc.CreateSession(ctx, "missing", "https://arar.example")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = f.svc.CreateSession(ctx, "draft-one", "https://arar.example")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = f.svc.CreateSession(ctx, "sold-out", "https://arar.example")
	assert.ErrorIs(t, err, ErrOutOfStock)
	_, err = f.svc.CreateSession(ctx, "free", "https://arar.example")
	assert.ErrorIs(t, err, ErrPricing)
}

func TestCheckoutStatus_SettlesOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.product(t, "ambre-sacre", 2, 21000, domain.ProductPublished)
	ctx := context.Background()
	sess, err := f.svc.CreateSession(ctx, p.Slug, "https://arar.example")
	require.NoError(t, err)

	st, err := f.svc.CheckoutStatus(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "open", st.Status)
	assert.Equal(t, "unpaid", st.PaymentStatus)

	f.stub.Complete(sess.SessionID)
	st, err = f.svc.CheckoutStatus(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "paid", st.PaymentStatus)

	st, err = f.svc.CheckoutStatus(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Payment already processed", st.Message)

	got, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StockQuantity, "stock taken exactly once")
}

func TestCheckoutStatus_Expired(t *testing.T) {
	f := newCheckoutFixture(t)
	f.product(t, "ambre-sacre", 2, 21000, domain.ProductPublished)
	ctx := context.Background()
	sess, err := f.svc.CreateSession(ctx, "ambre-sacre", "https://arar.example")
	require.NoError(t, err)

	f.stub.Expire(sess.SessionID)
	st, err := f.svc.CheckoutStatus(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "expired", st.Status)

	o, err := f.orders.GetBySessionID(sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderExpired, o.Status)
}

func TestCheckoutStatus_GatewayError(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.CheckoutStatus(context.Background(), "cs_unknown")
	assert.ErrorIs(t, err, ErrGateway)
}

func TestHandleWebhook_MarksPaidOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	p := f.product(t, "ambre-sacre", 5, 21000, domain.ProductPublished)
	sess, err := f.svc.CreateSession(context.Background(), p.Slug, "https://arar.example")
	require.NoError(t, err)

	body := []byte(`{"type":"checkout.session.completed","session_id":"` + sess.SessionID + `","payment_status":"paid"}`)
	for i := 0; i < 2; i++ {
		_, err := f.svc.HandleWebhook(body, payment.Sign("whsec_test", body))
		require.NoError(t, err)
	}

	got, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.StockQuantity)

	_, err = f.svc.HandleWebhook(body, "forged")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestCheckoutService_DrivesPoller(t *testing.T) {
	f := newCheckoutFixture(t)
	f.product(t, "ambre-sacre", 5, 21000, domain.ProductPublished)
	sess, err := f.svc.CreateSession(context.Background(), "ambre-sacre", "https://arar.example")
	require.NoError(t, err)

	p := confirm.NewPoller(f.svc, nil)
	p.Interval = 1
	var seen []confirm.Phase
	final := p.Run(context.Background(), sess.SessionID, func(s confirm.State) {
		seen = append(seen, s.Phase)
		if s.Phase == confirm.PhaseProcessing {
			f.stub.Complete(sess.SessionID)
		}
	})

	assert.Equal(t, confirm.PhasePaid, final.Phase)
	assert.Equal(t, []confirm.Phase{confirm.PhaseChecking, confirm.PhaseProcessing, confirm.PhasePaid}, seen)
	o, err := f.orders.GetBySessionID(sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, o.PaymentStatus)
}
