package openai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies API failures for retry decisions and user messages.
type Kind int

const (
	// KindAPI is any unexpected service response.
	KindAPI Kind = iota
	// KindAuth is a rejected credential; retrying cannot help.
	KindAuth
	// KindRateLimit is a 429 from the service.
	KindRateLimit
	// KindNetwork is a transport failure before any response arrived.
	KindNetwork
)

// Error is a classified API failure. Message is safe to show the user;
// Err carries the wire-level detail for logs.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether err is worth another attempt. Authentication
// failures are final; network, rate-limit, and generic API errors retry.
func Retryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind != KindAuth
	}
	return true
}

// classifyStatus maps a non-2xx response to an Error.
func classifyStatus(status int, body []byte) *Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{
			Kind:    KindAuth,
			Status:  status,
			Message: "Invalid API key. Please check your settings.",
		}
	case http.StatusTooManyRequests:
		return &Error{
			Kind:    KindRateLimit,
			Status:  status,
			Message: "Rate limit exceeded. Please wait a moment and try again.",
		}
	}
	e := &Error{
		Kind:    KindAPI,
		Status:  status,
		Message: fmt.Sprintf("API error (HTTP %d).", status),
	}
	if excerpt := strings.TrimSpace(string(body)); excerpt != "" {
		e.Err = errors.New(excerpt)
	}
	return e
}

// networkError wraps a transport failure.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "Network error. Please check your internet connection.",
		Err:     err,
	}
}
