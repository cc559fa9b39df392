// Package apierr defines the error taxonomy for backend API calls.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error classes
var (
	ErrTransport        = errors.New("transport failure")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrSettingsMissing  = errors.New("vedika settings missing")
	ErrInvalidToken     = errors.New("invalid token")
)

// Backend error codes carried in the response envelope.
const (
	CodeInvalidParams   = "INVALID_PARAMS"
	CodeSettingsMissing = "VEDIKA_SETTINGS_MISSING"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodePermission      = "PERMISSION_DENIED"
	CodeNotFound        = "NOT_FOUND"
)

// APIError represents a failed API call with the structured error body the
// backend returned, or a transport failure when no body was available.
type APIError struct {
	Err        error  `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Transport creates an error for a request that never produced a response.
func Transport(err error) *APIError {
	return &APIError{
		Err:     fmt.Errorf("%w: %w", ErrTransport, err),
		Message: "request failed",
	}
}

// Decode creates an error for a response body that could not be parsed.
func Decode(err error, status int) *APIError {
	return &APIError{
		Err:        fmt.Errorf("%w: %w", ErrTransport, err),
		Message:    "unreadable response",
		HTTPStatus: status,
	}
}

// FromEnvelope creates an error from the backend's structured error body.
// The sentinel wrapped in depends on the code so callers can use errors.Is.
func FromEnvelope(code, message string, status int) *APIError {
	e := &APIError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
	switch code {
	case CodeSettingsMissing:
		e.Err = ErrSettingsMissing
	case CodePermission:
		e.Err = ErrPermissionDenied
	case CodeNotFound:
		e.Err = ErrNotFound
	case CodeInvalidParams:
		e.Err = ErrInvalidParams
	case CodeInvalidToken:
		e.Err = ErrInvalidToken
	default:
		switch status {
		case http.StatusUnauthorized:
			e.Err = ErrUnauthorized
		case http.StatusForbidden:
			e.Err = ErrPermissionDenied
		case http.StatusNotFound:
			e.Err = ErrNotFound
		}
	}
	if status == http.StatusUnauthorized && !errors.Is(e.Err, ErrUnauthorized) {
		e.Err = errors.Join(e.Err, ErrUnauthorized)
	}
	return e
}

// IsSettingsMissing reports whether the error is the backend telling us
// the active claim period has not been configured.
func IsSettingsMissing(err error) bool {
	return errors.Is(err, ErrSettingsMissing)
}

// IsPermissionDenied reports whether the caller lacks a required permission.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsUnauthorized reports whether the call was rejected with 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Message extracts a human-readable message from any error, preferring the
// backend-provided one.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
