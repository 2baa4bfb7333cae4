// Package apierror defines the error taxonomy shared by the token manager,
// the request pipeline and the resource handles.
package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError reports invalid construction-time credentials. It is
// raised before any network activity and is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "moov: invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("moov: invalid configuration: %s: %s", e.Field, e.Reason)
}

// ValidationError reports a missing or malformed argument to a single call.
// Values are compared by identity, so the package-level sentinels work with
// errors.Is.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return "moov: " + e.Reason
}

// AuthenticationFailedError is returned when the token endpoint rejects a
// client-credentials grant or cannot be reached.
type AuthenticationFailedError struct {
	AccountID  string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *AuthenticationFailedError) Error() string {
	var b strings.Builder
	b.WriteString("moov: authentication failed")
	if e.AccountID != "" {
		fmt.Fprintf(&b, " for account %s", e.AccountID)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if len(e.Body) > 0 {
		fmt.Fprintf(&b, ": %s", strings.TrimSpace(string(e.Body)))
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AuthenticationFailedError) Unwrap() error {
	return e.Err
}

// APIError is any non-2xx response from a resource endpoint.
type APIError struct {
	Method     string
	Path       string
	StatusCode int

	// Body is the raw response payload. Details holds it decoded when the
	// server returned a JSON object.
	Body    []byte
	Details map[string]any
}

// NewAPIError builds an APIError, decoding the body when it is a JSON
// object.
func NewAPIError(method, path string, statusCode int, body []byte) *APIError {
	e := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       body,
	}

	var details map[string]any
	if len(body) > 0 && json.Unmarshal(body, &details) == nil {
		e.Details = details
	}

	return e
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("moov: %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if detail := e.Message(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Message returns the server supplied error text, if any.
func (e *APIError) Message() string {
	for _, key := range []string{"error", "message"} {
		if s, ok := e.Details[key].(string); ok && s != "" {
			return s
		}
	}
	if e.Details == nil && len(e.Body) > 0 {
		return strings.TrimSpace(string(e.Body))
	}
	return ""
}
