package snaptic

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnauthorized = errors.New("snaptic: authentication rejected")
	ErrForbidden    = errors.New("snaptic: access forbidden")
	ErrNotFound     = errors.New("snaptic: resource not found")
	ErrServer       = errors.New("snaptic: server error (5xx)")
	ErrBadResponse  = errors.New("snaptic: malformed response")
	ErrUnavailable  = errors.New("snaptic: host unreachable or transport failure")
	ErrTimeout      = errors.New("snaptic: request timed out")
	ErrNoCredential = errors.New("snaptic: no username/password combination or cookie authentication provided")
)

// APIError wraps a sentinel error with the operation that failed and, for
// HTTP failures, the status and response body the server returned.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("snaptic: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

// statusError maps a non-200 HTTP response to an APIError.
func statusError(operation string, status int, body string) *APIError {
	sentinel := ErrServer
	switch {
	case status == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status < 500:
		sentinel = ErrBadResponse
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return &APIError{Sentinel: sentinel, Operation: operation, Status: status, Body: body}
}

// transportError maps a transport-level failure to an APIError.
func transportError(operation string, err error) *APIError {
	sentinel := ErrUnavailable
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		sentinel = ErrTimeout
	}
	return &APIError{Sentinel: sentinel, Operation: operation, Err: err}
}

// decodeError maps a JSON decode failure to an APIError.
func decodeError(operation string, err error) *APIError {
	return &APIError{Sentinel: ErrBadResponse, Operation: operation, Err: err}
}
