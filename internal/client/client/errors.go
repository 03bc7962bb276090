package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is a 4xx rejection of the request itself: bad
	// credentials, duplicate e-mail, missing fields.
	ErrValidation = errors.New("validation error")
	// ErrNotAuthenticated means no credential is available locally.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the server rejected a credential we sent.
	ErrSessionExpired = errors.New("session expired")
	// ErrNetwork means no response was received.
	ErrNetwork = errors.New("network error")
	// ErrServer is a 5xx or a response body of unexpected shape.
	ErrServer = errors.New("server error")
)

// HTTPError describes a failed API call. Status is 0 when no response was
// received. Kind is one of the sentinel errors above, so callers can match
// with errors.Is; Err keeps the underlying transport or decoding error.
type HTTPError struct {
	Status  int
	Body    []byte
	Message string
	Kind    error
	Err     error
}

func (e *HTTPError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%v: status %d: %s", e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%v: status %d: %v", e.Kind, e.Status, e.Err)
	default:
		return fmt.Sprintf("%v: status %d", e.Kind, e.Status)
	}
}

func (e *HTTPError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// errorBody is the shape the backend uses for failures.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newStatusError classifies a non-2xx response. authenticated tells whether
// the request carried a credential: only then is a 401/403 an expired
// session rather than rejected input.
func newStatusError(status int, body []byte, authenticated bool) *HTTPError {
	return &HTTPError{
		Status:  status,
		Body:    body,
		Message: decodeMessage(body),
		Kind:    classify(status, authenticated),
	}
}

func newNetworkError(err error) *HTTPError {
	return &HTTPError{Kind: ErrNetwork, Err: err}
}

func classify(status int, authenticated bool) error {
	switch {
	case status == 0:
		return ErrNetwork
	case status >= http.StatusInternalServerError:
		return ErrServer
	case authenticated && (status == http.StatusUnauthorized || status == http.StatusForbidden):
		return ErrSessionExpired
	case status >= http.StatusBadRequest:
		return ErrValidation
	default:
		return ErrServer
	}
}

// decodeMessage extracts a human-readable message from an error body, or
// returns "" when the body has no recognizable shape.
func decodeMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}

// UserMessage returns the server-provided message carried by err, or
// fallback when there is none.
func UserMessage(err error, fallback string) string {
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return fallback
}
