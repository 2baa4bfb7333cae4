package testhelpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/justinas/alice"
)

const (
	TestAccountID = "facilitator-id"
	TestPublicKey = "test-public-key"
	TestSecretKey = "test-secret-key"
	TestDomain    = "https://example.com"
)

// TokenRequest captures a call to the token endpoint.
type TokenRequest struct {
	Form      url.Values
	BasicUser string
	BasicPass string
	Origin    string
}

// RecordedRequest captures any call received by the mock server.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Header        http.Header
	Body          []byte
}

// MockMoovServer provides a configurable mock Moov API for testing. The
// token endpoint is always registered; resource routes are added with
// Handle and HandleJSON.
type MockMoovServer struct {
	Server *httptest.Server

	mu              sync.Mutex
	mux             *http.ServeMux
	tokenExpiresIn  any
	tokenStatusCode int
	tokenFormBody   bool
	tokenCount      int
	tokenRequests   []TokenRequest
	requests        []RecordedRequest
}

// SetupMockMoovServer starts a mock server issuing tokens that expire after
// an hour. The server is closed when the test ends.
func SetupMockMoovServer(t *testing.T) *MockMoovServer {
	t.Helper()

	mock := &MockMoovServer{
		mux:             http.NewServeMux(),
		tokenExpiresIn:  3600,
		tokenStatusCode: http.StatusOK,
	}

	mock.Handle("POST /oauth2/token", mock.handleToken)

	mock.Server = httptest.NewServer(mock.mux)
	t.Cleanup(mock.Server.Close)

	return mock
}

// URL is the base URL clients should be pointed at.
func (m *MockMoovServer) URL() string {
	return m.Server.URL
}

// SetTokenExpiresIn sets the expires_in value returned by the token
// endpoint. Pass nil to omit the field.
func (m *MockMoovServer) SetTokenExpiresIn(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenExpiresIn = v
}

// SetTokenStatus makes the token endpoint respond with the given status.
func (m *MockMoovServer) SetTokenStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenStatusCode = status
}

// SetTokenFormEncoded makes the token endpoint respond with an
// application/x-www-form-urlencoded body instead of JSON.
func (m *MockMoovServer) SetTokenFormEncoded(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenFormBody = enabled
}

// Handle registers a route. Every request passes through the recording
// middleware first.
func (m *MockMoovServer) Handle(pattern string, handler http.HandlerFunc) {
	chain := alice.New(m.record)
	m.mux.Handle(pattern, chain.ThenFunc(handler))
}

// HandleJSON registers a route that always responds with payload.
func (m *MockMoovServer) HandleJSON(pattern string, status int, payload any) {
	m.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSONStatus(w, status, payload)
	})
}

// TokenRequests returns the token endpoint calls received so far.
func (m *MockMoovServer) TokenRequests() []TokenRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TokenRequest(nil), m.tokenRequests...)
}

// Requests returns all calls received so far, token calls included.
func (m *MockMoovServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// Count returns the number of calls received for method and path.
func (m *MockMoovServer) Count(method, path string) int {
	n := 0
	for _, r := range m.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent call for method and path.
func (m *MockMoovServer) Last(method, path string) (RecordedRequest, bool) {
	requests := m.Requests()
	for i := len(requests) - 1; i >= 0; i-- {
		if requests[i].Method == method && requests[i].Path == path {
			return requests[i], true
		}
	}
	return RecordedRequest{}, false
}

func (m *MockMoovServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		m.mu.Lock()
		m.requests = append(m.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Header:        r.Header.Clone(),
			Body:          body,
		})
		m.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (m *MockMoovServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, pass, _ := r.BasicAuth()

	m.mu.Lock()
	m.tokenCount++
	n := m.tokenCount
	m.tokenRequests = append(m.tokenRequests, TokenRequest{
		Form:      r.PostForm,
		BasicUser: user,
		BasicPass: pass,
		Origin:    r.Header.Get("Origin"),
	})
	status := m.tokenStatusCode
	expiresIn := m.tokenExpiresIn
	formBody := m.tokenFormBody
	m.mu.Unlock()

	if status != http.StatusOK {
		WriteJSONStatus(w, status, map[string]string{"error": "invalid_client"})
		return
	}

	payload := map[string]any{
		"access_token":  fmt.Sprintf("access-token-%d", n),
		"token_type":    "Bearer",
		"refresh_token": fmt.Sprintf("refresh-token-%d", n),
		"scope":         r.PostForm.Get("scope"),
	}
	if expiresIn != nil {
		payload["expires_in"] = expiresIn
	}

	if formBody {
		values := url.Values{}
		for k, v := range payload {
			values.Set(k, fmt.Sprint(v))
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		_, _ = io.WriteString(w, values.Encode())
		return
	}

	WriteJSON(w, payload)
}

// WriteJSON is a helper function that writes a JSON response.
// It sets the Content-Type header and marshals the payload to JSON.
func WriteJSON(w http.ResponseWriter, payload any) {
	WriteJSONStatus(w, http.StatusOK, payload)
}

// WriteJSONStatus writes payload as JSON with the given status code.
func WriteJSONStatus(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		// In test context, this should never happen with valid test data
		http.Error(w, fmt.Sprintf("failed to marshal JSON: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
