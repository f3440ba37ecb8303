package provider

import (
	"context"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = time.Second
)

// RetryConfig bounds how hard one provider is tried before the chain moves
// on. Backoff is fixed between attempts, so a provider's worst case is
// MaxAttempts live calls plus (MaxAttempts-1) backoff sleeps.
type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// RetryHandler executes retryable operations with a fixed backoff.
type RetryHandler struct {
	cfg RetryConfig
}

// NewRetryHandler constructs a handler, filling in defaults.
func NewRetryHandler(cfg RetryConfig) *RetryHandler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	return &RetryHandler{cfg: cfg}
}

// Do runs fn until it succeeds, fails non-transiently, or the attempt
// budget runs out. Only transient errors are retried; anything else is
// returned immediately so the caller can escalate.
func (r *RetryHandler) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt >= r.cfg.MaxAttempts {
			return err
		}
		select {
		case <-time.After(r.cfg.Backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
