package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// StubProvider is an in-memory gateway for development and tests. Sessions
// start open/unpaid and are settled with Complete or Expire.
type StubProvider struct {
	WebhookSecret string

	mu       sync.Mutex
	seq      int
	sessions map[string]*SessionStatus
}

func NewStubProvider(webhookSecret string) *StubProvider {
	return &StubProvider{WebhookSecret: webhookSecret, sessions: make(map[string]*SessionStatus)}
}

func (s *StubProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("cs_stub_%d_%d", time.Now().UnixNano(), s.seq)
	s.sessions[id] = &SessionStatus{
		Status:        "open",
		PaymentStatus: "unpaid",
		AmountTotal:   req.AmountCents,
		Currency:      strings.ToLower(req.Currency),
	}
	success := strings.ReplaceAll(req.SuccessURL, "{CHECKOUT_SESSION_ID}", id)
	return &CheckoutSession{SessionID: id, URL: success}, nil
}

func (s *StubProvider) GetCheckoutStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("stub: no such checkout session %q", sessionID)
	}
	cp := *st
	return &cp, nil
}

func (s *StubProvider) Complete(sessionID string) {
	s.set(sessionID, "complete", "paid")
}

func (s *StubProvider) Expire(sessionID string) {
	s.set(sessionID, "expired", "unpaid")
}

func (s *StubProvider) set(sessionID, status, paymentStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &SessionStatus{Currency: "usd"}
		s.sessions[sessionID] = st
	}
	st.Status = status
	st.PaymentStatus = paymentStatus
}

// ParseWebhook expects JSON {"type","session_id","payment_status"} signed with
// a hex HMAC-SHA256 of the body when a secret is set.
func (s *StubProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if s.WebhookSecret != "" && !hmac.Equal([]byte(signature), []byte(Sign(s.WebhookSecret, payload))) {
		return nil, ErrInvalidSignature
	}
	var body struct {
		Type          string `json:"type"`
		SessionID     string `json:"session_id"`
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	return &WebhookEvent{Type: body.Type, SessionID: body.SessionID, PaymentStatus: body.PaymentStatus}, nil
}

// Sign returns the signature StubProvider expects for payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
