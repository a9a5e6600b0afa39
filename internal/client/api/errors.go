package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskmarket/internal/common"
)

var (
	// ErrUnavailable wraps transport failures: refused connections, resets,
	// client-side timeouts.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized matches any *Error with HTTP status 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a failure reported by the backend, either through the HTTP
// status or through the envelope (success=false, status!=200).
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Message returns the text to show the user for err: the backend message
// when there is one, the fallback string for transport and backend failures
// without one, and err's own text for local validation errors.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return common.FallbackErrorMessage
	}

	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return common.FallbackErrorMessage
	}

	return err.Error()
}
