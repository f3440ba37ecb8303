package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryHandlerDefaults(t *testing.T) {
	h := NewRetryHandler(RetryConfig{})
	require.Equal(t, defaultMaxAttempts, h.cfg.MaxAttempts)
	require.Equal(t, defaultBackoff, h.cfg.Backoff)
}

func TestRetryTransientUntilBudget(t *testing.T) {
	h := NewRetryHandler(RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})
	calls := 0
	err := h.Do(context.Background(), func() error {
		calls++
		return Transientf("primary", "rate limited")
	})
	require.Error(t, err)
	require.True(t, IsTransient(err))
	require.Equal(t, 3, calls)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	h := NewRetryHandler(RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})
	calls := 0
	err := h.Do(context.Background(), func() error {
		calls++
		if calls < 2 {
			return Transientf("primary", "flaky")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestRetryNonTransientFailsImmediately(t *testing.T) {
	h := NewRetryHandler(RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})
	calls := 0
	fatal := errors.New("malformed response")
	err := h.Do(context.Background(), func() error {
		calls++
		return fatal
	})
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, calls)
}

func TestRetryHonoursContextDuringBackoff(t *testing.T) {
	h := NewRetryHandler(RetryConfig{MaxAttempts: 3, Backoff: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := h.Do(ctx, func() error {
		return Transientf("primary", "down")
	})
	require.ErrorIs(t, err, context.Canceled)
}
