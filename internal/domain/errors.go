package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no stored record matches the requested key.
var ErrNotFound = errors.New("not found")

// ErrAllProvidersFailed indicates every configured scraper provider was
// attempted in order and all of them failed.
var ErrAllProvidersFailed = errors.New("all scraping providers failed")

// ValidationError reports a malformed request. It maps to HTTP 400 at the
// route boundary.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
