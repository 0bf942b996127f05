package confirm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatusQuerier fetches the current checkout status of a session.
type StatusQuerier interface {
	CheckoutStatus(ctx context.Context, sessionID string) (*Status, error)
}

// QuerierFunc adapts a function to StatusQuerier.
type QuerierFunc func(ctx context.Context, sessionID string) (*Status, error)

func (f QuerierFunc) CheckoutStatus(ctx context.Context, sessionID string) (*Status, error) {
	return f(ctx, sessionID)
}

// Observer receives every state whose phase differs from the previous one,
// starting with the initial state.
type Observer func(State)

// Poller issues status queries one at a time, waiting Interval between a
// handled response and the next query, until a terminal phase is reached.
type Poller struct {
	Querier     StatusQuerier
	Interval    time.Duration
	MaxAttempts int
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewPoller(q StatusQuerier, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		Querier:     q,
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
		Logger:      logger,
		Now:         time.Now,
	}
}

// Run polls until the view is resolved or ctx is cancelled. Cancellation stops
// the pending timer and returns the last state without notifying observe again.
func (p *Poller) Run(ctx context.Context, sessionID string, observe Observer) State {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	state := Start(sessionID, now())
	if p.MaxAttempts > 0 {
		state.MaxAttempts = p.MaxAttempts
	}
	emit(observe, state)
	if state.Done() {
		log.Debug("confirmation resolved without session id", zap.String("order_reference", state.OrderReference))
		return state
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("confirmation poll cancelled",
				zap.String("session_id", sessionID),
				zap.Int("attempt", state.Attempt))
			return state
		case <-timer.C:
		}

		st, err := p.Querier.CheckoutStatus(ctx, sessionID)
		if ctx.Err() != nil {
			return state
		}
		if err != nil {
			log.Warn("checkout status query failed, assuming paid",
				zap.String("session_id", sessionID),
				zap.Int("attempt", state.Attempt+1),
				zap.Error(err))
		}
		prev := state.Phase
		state = state.Next(st, err)
		if state.Phase != prev {
			emit(observe, state)
		}
		if state.Done() {
			log.Info("checkout confirmation resolved",
				zap.String("session_id", sessionID),
				zap.String("phase", string(state.Phase)),
				zap.Int("attempts", state.Attempt))
			return state
		}
		timer.Reset(p.interval())
	}
}

func (p *Poller) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}
	return p.Interval
}

func emit(observe Observer, s State) {
	if observe != nil {
		observe(s)
	}
}
