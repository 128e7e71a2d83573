// Package careermentor - errors.go
// Defines session and provider errors.

package careermentor

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed     = errors.New("session has been closed")
	ErrSessionNotFound   = errors.New("session not found")
	ErrMissingAPIKey     = errors.New("GEMINI_API_KEY is not set in your .env file.")
	ErrToolNotFound      = errors.New("tool not found")
	ErrTooManyToolRounds = errors.New("too many tool rounds")
)

// ProviderError is any failure in producing or streaming a completion.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}
