package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound      = errors.New("post not found")
	ErrCommunityNotFound = errors.New("community not found")
	ErrProfileNotFound   = errors.New("profile not found")

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")

	// Session errors
	ErrLoginRequired = errors.New("login required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("expired token")

	// Validation errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidInteraction = errors.New("invalid interaction type")

	// Upstream errors
	ErrTransport     = errors.New("upstream transport failure")
	ErrStaleResponse = errors.New("stale response discarded")
)

// APIError is a business failure reported by the upstream API through an
// envelope with isSuccess=false.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsAPIError unwraps err into an *APIError when the upstream rejected the request
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTransport reports whether err happened before any envelope was received
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
