// Package pipeline sends authenticated requests to the Moov API and maps
// responses onto Go values or typed errors.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/apierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultUserAgent is sent when no other user agent is configured.
const DefaultUserAgent = "moov-go"

// Request describes one API call. Path is relative to the base URL and must
// already be escaped; build it with JoinPath.
type Request struct {
	Method string
	Path   string
	Query  *Query

	// Body is encoded as JSON when non-nil.
	Body   any
	Header http.Header

	// Auth defaults to NoAuth.
	Auth Authenticator
}

// Pipeline executes requests against a single API base URL.
type Pipeline struct {
	baseURL   *url.URL
	client    *http.Client
	header    http.Header
	userAgent string
	logger    *zerolog.Logger
}

type Option func(*Pipeline)

// WithHTTPClient sets the client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		p.client = client
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(p *Pipeline) {
		p.header.Add(key, value)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(p *Pipeline) {
		p.userAgent = userAgent
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = &logger
	}
}

func New(baseURL *url.URL, opts ...Option) *Pipeline {
	p := &Pipeline{
		baseURL:   baseURL,
		client:    http.DefaultClient,
		header:    http.Header{},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BaseURL returns the URL that request paths are resolved against.
func (p *Pipeline) BaseURL() *url.URL {
	u := *p.baseURL
	return &u
}

// LogContext attaches the configured logger to ctx unless ctx already
// carries an enabled one.
func (p *Pipeline) LogContext(ctx context.Context) context.Context {
	if p.logger == nil || zerolog.Ctx(ctx).GetLevel() != zerolog.Disabled {
		return ctx
	}
	return p.logger.WithContext(ctx)
}

// JSON sends req and decodes a successful response body into out. A nil out,
// an empty body or a 204 response leaves out untouched.
func (p *Pipeline) JSON(ctx context.Context, req Request, out any) error {
	status, body, err := p.do(ctx, req, "application/json")
	if err != nil {
		return err
	}

	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// Bytes sends req and returns the raw response body.
func (p *Pipeline) Bytes(ctx context.Context, req Request) ([]byte, error) {
	_, body, err := p.do(ctx, req, "*/*")
	return body, err
}

func (p *Pipeline) do(ctx context.Context, req Request, accept string) (int, []byte, error) {
	ctx = p.LogContext(ctx)

	httpReq, err := p.build(ctx, req, accept)
	if err != nil {
		return 0, nil, err
	}

	auth := req.Auth
	if auth == nil {
		auth = NoAuth{}
	}
	if err := auth.Authenticate(ctx, httpReq); err != nil {
		return 0, nil, err
	}

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response from %s %s: %w", req.Method, req.Path, err)
	}

	log.Ctx(ctx).Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("moov request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, apierror.NewAPIError(req.Method, req.Path, resp.StatusCode, body)
	}

	return resp.StatusCode, body, nil
}

func (p *Pipeline) build(ctx context.Context, req Request, accept string) (*http.Request, error) {
	if err := checkPath(req.Path); err != nil {
		return nil, err
	}

	// url.URL.JoinPath would clean the joined path, so the escaped form is
	// set directly.
	u := *p.baseURL
	escaped := strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.TrimPrefix(req.Path, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, fmt.Errorf("building request %s %s: %w", req.Method, req.Path, err)
	}
	u.Path, u.RawPath = unescaped, escaped
	u.RawQuery = req.Query.Encode()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body for %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request %s %s: %w", req.Method, req.Path, err)
	}

	for key, values := range p.header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, values := range req.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("User-Agent", p.userAgent)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}
