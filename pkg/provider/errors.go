package provider

import (
	"errors"
	"fmt"
	"strings"
)

// TransientError marks a provider failure worth retrying against the same
// provider: network trouble, rate limiting, upstream 5xx, or an empty
// payload that may fill in on a later attempt.
type TransientError struct {
	Source string
	Err    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("provider %s: transient: %v", e.Source, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transientf wraps a formatted error as transient for the given source.
func Transientf(source, format string, args ...any) error {
	return &TransientError{Source: source, Err: fmt.Errorf(format, args...)}
}

// IsTransient reports whether err should be retried in place.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Failure records why one provider in a chain gave up.
type Failure struct {
	Source string
	Err    error
}

// SourceExhaustedError is the single terminal failure a fetch task can
// produce: every provider in the chain failed for this request.
type SourceExhaustedError struct {
	Instrument string
	Period     string
	Failures   []Failure
}

func (e *SourceExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}
	return fmt.Sprintf("provider: all sources exhausted for %s %s [%s]",
		e.Instrument, e.Period, strings.Join(parts, "; "))
}
