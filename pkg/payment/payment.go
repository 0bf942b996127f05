// Package payment talks to the hosted-checkout payment gateway.
package payment

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

// SessionStatus mirrors the gateway's view of a checkout session.
type SessionStatus struct {
	Status        string // open | complete | expired
	PaymentStatus string // paid | unpaid | no_payment_required
	AmountTotal   int64
	Currency      string
}

type WebhookEvent struct {
	Type          string
	SessionID     string
	PaymentStatus string
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
