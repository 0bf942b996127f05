// Package confirm resolves an eventually-consistent checkout confirmation into
// a definite phase by polling the checkout status endpoint a bounded number of
// times.
//
// The transition function is pure and independent of timers so it can be
// driven by Poller, by the live websocket stream, or directly in tests.
package confirm

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseChecking   Phase = "checking"
	PhaseProcessing Phase = "processing"
	PhasePaid       Phase = "paid"
	PhaseExpired    Phase = "expired"
	PhaseTimeout    Phase = "timeout"
)

const (
	DefaultMaxAttempts = 5
	DefaultInterval    = 2000 * time.Millisecond
)

// Gateway vocabulary that carries transition significance.
const (
	PaymentStatusPaid = "paid"
	SessionExpired    = "expired"
)

// Terminal reports whether no further transition can leave p.
func (p Phase) Terminal() bool {
	return p == PhasePaid || p == PhaseExpired || p == PhaseTimeout
}

// Display returns the phase shown to the user. An exhausted retry budget is
// shown as a successful payment.
func (p Phase) Display() Phase {
	if p == PhaseTimeout {
		return PhasePaid
	}
	return p
}

// Status is the body of GET /api/checkout/status/{session_id}.
type Status struct {
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
	AmountTotal   int64  `json:"amount_total,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Message       string `json:"message,omitempty"`
}

// State is the poll state of one confirmation view.
type State struct {
	Phase          Phase  `json:"phase"`
	Attempt        int    `json:"attempt"`
	MaxAttempts    int    `json:"-"`
	OrderReference string `json:"order_reference"`
	SessionID      string `json:"-"`
}

// Start creates the state for a view opened with sessionID. Without a session
// id the view is resolved as paid and no query is ever issued.
func Start(sessionID string, now time.Time) State {
	s := State{
		Phase:          PhaseChecking,
		MaxAttempts:    DefaultMaxAttempts,
		OrderReference: OrderReference(now),
		SessionID:      sessionID,
	}
	if sessionID == "" {
		s.Phase = PhasePaid
	}
	return s
}

// Next applies the outcome of one status query. Terminal states absorb every
// later outcome, so late or out-of-order responses are harmless.
func (s State) Next(st *Status, err error) State {
	if s.Phase.Terminal() {
		return s
	}
	s.Attempt++
	switch {
	case err != nil:
		// Reaching this page means the gateway already redirected; a failed
		// check is not a failed payment.
		s.Phase = PhasePaid
	case st == nil:
		s.Phase = PhasePaid
	case st.PaymentStatus == PaymentStatusPaid:
		s.Phase = PhasePaid
	case st.Status == SessionExpired:
		s.Phase = PhaseExpired
	case s.Attempt >= s.maxAttempts():
		s.Phase = PhaseTimeout
	default:
		s.Phase = PhaseProcessing
	}
	return s
}

// Done reports whether polling must stop.
func (s State) Done() bool {
	return s.Phase.Terminal()
}

func (s State) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return s.MaxAttempts
}

// OrderReference synthesizes the display-only reference shown on the
// confirmation page: ARAR- followed by the last 8 digits of the unix
// millisecond clock.
func OrderReference(now time.Time) string {
	ms := fmt.Sprintf("%08d", now.UnixMilli())
	return "ARAR-" + ms[len(ms)-8:]
}
