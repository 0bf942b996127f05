package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arar/config"
	"arar/internal/database"
	"arar/internal/database/dbtest"
	"arar/internal/domain"
	"arar/pkg/cloudinary"
	"arar/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const webhookSecret = "whsec_test"

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	stub   *payment.StubProvider
	cfg    *config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Confirm.Interval = time.Millisecond

	db := dbtest.New(t)
	require.NoError(t, database.SeedAdmin(db, &cfg.Admin, zap.NewNop()))
	cloud, err := cloudinary.NewClientFromParams("", "", "")
	require.NoError(t, err)
	stub := payment.NewStubProvider(webhookSecret)

	engine := Setup(cfg, db, cloud, stub, zap.NewNop(), prometheus.NewRegistry())
	return &testApp{t: t, engine: engine, stub: stub, cfg: cfg}
}

func (a *testApp) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) login() string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/admin/login", gin.H{
		"email": a.cfg.Admin.Email, "password": a.cfg.Admin.Password,
	}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(a.t, w, &out)
	require.Equal(a.t, "bearer", out.TokenType)
	return out.AccessToken
}

func (a *testApp) createProduct(token, slug string, stock int, status string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/admin/products", gin.H{
		"name":              "Ambre Sacré",
		"slug":              slug,
		"short_description": "Warm amber",
		"long_description":  "Resin, labdanum and smoke.",
		"price":             "$210",
		"price_amount":      21000,
		"stock_quantity":    stock,
		"status":            status,
		"hero_image_url":    "https://res.cloudinary.com/arar/hero.jpg",
		"notes_top":         []string{"saffron"},
	}, token)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	decode(a.t, w, &out)
	return out.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Detail string `json:"detail"`
	}
	decode(t, w, &out)
	return out.Detail
}

func TestHealthAndRoot(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = app.do(http.MethodGet, "/api/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/admin/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authenticated", detail(t, w))

	w = app.do(http.MethodGet, "/api/admin/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodPost, "/api/admin/login", gin.H{"email": app.cfg.Admin.Email, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect email or password", detail(t, w))

	token := app.login()
	w = app.do(http.MethodGet, "/api/admin/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, w, &me)
	assert.Equal(t, app.cfg.Admin.Email, me.Email)
	assert.Equal(t, domain.RoleAdmin, me.Role)

	reg := gin.H{"email": "curator@arar-parfums.com", "full_name": "Curator", "password": "long-enough"}
	w = app.do(http.MethodPost, "/api/admin/register", reg, token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(http.MethodPost, "/api/admin/register", reg, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", detail(t, w))
}

func TestProductLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.login()

	id := app.createProduct(token, "ambre-sacre", 3, domain.ProductPublished)
	draftID := app.createProduct(token, "oud-noir", 3, domain.ProductDraft)

	w := app.do(http.MethodPost, "/api/admin/products", gin.H{
		"name": "Dup", "slug": "ambre-sacre", "short_description": "s", "long_description": "l",
		"price": "$1", "price_amount": 100, "hero_image_url": "https://x/y.jpg",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Public catalog hides drafts.
	w = app.do(http.MethodGet, "/api/fragrances", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var public []struct {
		Slug     string   `json:"slug"`
		NotesTop []string `json:"notes_top"`
	}
	decode(t, w, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "ambre-sacre", public[0].Slug)
	assert.Equal(t, []string{"saffron"}, public[0].NotesTop)

	w = app.do(http.MethodGet, "/api/fragrances/oud-noir", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/api/admin/products", nil, token)
	var all []json.RawMessage
	decode(t, w, &all)
	assert.Len(t, all, 2)

	w = app.do(http.MethodPut, "/api/admin/products/"+draftID, gin.H{"slug": "ambre-sacre"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Slug already in use", detail(t, w))

	w = app.do(http.MethodPut, "/api/admin/products/"+id, gin.H{"notes_heart": []string{"rose", "oud"}, "name": "Ambre"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(http.MethodGet, "/api/admin/products/"+id, nil, token)
	var got struct {
		Name       string   `json:"name"`
		NotesHeart []string `json:"notes_heart"`
		NotesTop   []string `json:"notes_top"`
	}
	decode(t, w, &got)
	assert.Equal(t, "Ambre", got.Name)
	assert.Equal(t, []string{"rose", "oud"}, got.NotesHeart)
	assert.Equal(t, []string{"saffron"}, got.NotesTop)

	w = app.do(http.MethodPatch, "/api/admin/products/"+id+"/status", gin.H{"status": "sold"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", detail(t, w))

	w = app.do(http.MethodPatch, "/api/admin/products/"+id+"/stock", gin.H{"stock_quantity": 0}, token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodDelete, "/api/admin/products/"+draftID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodDelete, "/api/admin/products/"+draftID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(http.MethodPatch, "/api/admin/products/missing/stock", gin.H{"stock_quantity": 1}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCollections(t *testing.T) {
	app := newTestApp(t)
	token := app.login()

	w := app.do(http.MethodPost, "/api/admin/collections", gin.H{"name": "Nocturne", "description": "Night pieces"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decode(t, w, &created)

	w = app.do(http.MethodPut, "/api/admin/collections/"+created.ID, gin.H{"featured": true}, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodPut, "/api/admin/collections/"+created.ID, gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(http.MethodPut, "/api/admin/collections/missing", gin.H{"name": "x"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/api/admin/collections", nil, token)
	var list []struct {
		Featured bool `json:"featured"`
	}
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].Featured)

	w = app.do(http.MethodDelete, "/api/admin/collections/"+created.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodDelete, "/api/admin/collections/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func createCheckout(t *testing.T, app *testApp, slug string) (int, string) {
	t.Helper()
	w := app.do(http.MethodPost, "/api/create-checkout-session", gin.H{
		"fragrance_slug": slug, "origin_url": "https://arar.example",
	}, "")
	if w.Code != http.StatusOK {
		return w.Code, detail(t, w)
	}
	var out struct {
		SessionID string `json:"sessionId"`
		URL       string `json:"url"`
	}
	decode(t, w, &out)
	assert.Contains(t, out.URL, out.SessionID)
	return w.Code, out.SessionID
}

func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login()
	id := app.createProduct(token, "ambre-sacre", 1, domain.ProductPublished)

	code, msg := createCheckout(t, app, "missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", msg)

	code, sessionID := createCheckout(t, app, "ambre-sacre")
	require.Equal(t, http.StatusOK, code)

	w := app.do(http.MethodGet, "/api/checkout/status/"+sessionID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payment_status":"unpaid"`)

	app.stub.Complete(sessionID)
	w = app.do(http.MethodGet, "/api/checkout/status/"+sessionID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payment_status":"paid"`)

	w = app.do(http.MethodGet, "/api/admin/products/"+id, nil, token)
	var p struct {
		StockQuantity int `json:"stock_quantity"`
	}
	decode(t, w, &p)
	assert.Zero(t, p.StockQuantity)

	code, msg = createCheckout(t, app, "ambre-sacre")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "This item is currently out of stock", msg)

	w = app.do(http.MethodGet, "/api/checkout/status/cs_unknown", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Unable to check payment status", detail(t, w))
}

func TestOrdersAdmin(t *testing.T) {
	app := newTestApp(t)
	token := app.login()
	app.createProduct(token, "ambre-sacre", 5, domain.ProductPublished)
	_, first := createCheckout(t, app, "ambre-sacre")
	_, second := createCheckout(t, app, "ambre-sacre")

	w := app.do(http.MethodGet, "/api/admin/orders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []struct {
		ID        string `json:"id"`
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
	}
	decode(t, w, &orders)
	require.Len(t, orders, 2)
	sessions := []string{orders[0].SessionID, orders[1].SessionID}
	assert.ElementsMatch(t, []string{first, second}, sessions)

	orderID := orders[0].ID
	w = app.do(http.MethodPatch, "/api/admin/orders/"+orderID+"/status?status=refunded", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(detail(t, w), "Invalid status. Must be one of: pending"))

	w = app.do(http.MethodPatch, "/api/admin/orders/"+orderID+"/status?status=shipped", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodGet, "/api/admin/orders?status=shipped", nil, token)
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)

	w = app.do(http.MethodGet, "/api/admin/orders/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(http.MethodPatch, "/api/admin/orders/missing/status?status=paid", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStripeWebhook(t *testing.T) {
	app := newTestApp(t)
	token := app.login()
	app.createProduct(token, "ambre-sacre", 5, domain.ProductPublished)
	_, sessionID := createCheckout(t, app, "ambre-sacre")

	body := []byte(`{"type":"checkout.session.completed","session_id":"` + sessionID + `","payment_status":"paid"}`)
	post := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", bytes.NewReader(body))
		req.Header.Set("Stripe-Signature", sig)
		w := httptest.NewRecorder()
		app.engine.ServeHTTP(w, req)
		return w
	}

	w := post("forged")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"received"`)

	w = post(payment.Sign(webhookSecret, body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success"}`, w.Body.String())

	w = app.do(http.MethodGet, "/api/admin/orders?status="+domain.OrderCompleted, nil, token)
	var orders []json.RawMessage
	decode(t, w, &orders)
	assert.Len(t, orders, 1)
}

func TestEngagement(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/newsletter", gin.H{"email": "Reader@Example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(http.MethodPost, "/api/newsletter", gin.H{"email": "reader@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already subscribed", detail(t, w))
	w = app.do(http.MethodPost, "/api/newsletter", gin.H{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = app.do(http.MethodPost, "/api/contact", gin.H{"name": "Lea", "email": "lea@example.com", "message": "Samples?"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	decode(t, w, &out)
	assert.Equal(t, "Inquiry received", out.Message)
	assert.NotEmpty(t, out.ID)
}

func TestMediaWithoutCredentials(t *testing.T) {
	app := newTestApp(t)
	token := app.login()

	w := app.do(http.MethodGet, "/api/admin/media/upload-signature", nil, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Cloudinary credentials are not configured on the server.", detail(t, w))

	w = app.do(http.MethodGet, "/api/admin/media/upload-signature", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodGet, "/health", nil, "")
	w := app.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "arar_http_requests_total")
	assert.Contains(t, w.Body.String(), "arar_confirmation_streams_open")
}
