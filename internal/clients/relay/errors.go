package relay

import (
	"errors"
	"fmt"
)

// Sentinel failure kinds for the relay chain. Callers match with errors.Is.
var (
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
	ErrMalformed    = errors.New("malformed response")
	ErrExhausted    = errors.New("all relay strategies exhausted")
)

// Error records which relay failed and on which attempt.
type Error struct {
	Relay   string
	Attempt int
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("relay %s attempt %d: %v (status %d)", e.Relay, e.Attempt, e.Err, e.Status)
	}
	return fmt.Sprintf("relay %s attempt %d: %v", e.Relay, e.Attempt, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
