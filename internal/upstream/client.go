package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/BAZAR-APP/admin-panel/pkg/httpclient"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
	"github.com/BAZAR-APP/admin-panel/pkg/middleware"
	"github.com/BAZAR-APP/admin-panel/pkg/tracing"
)

// ServiceName labels platform calls in errors, spans and breaker metrics.
const ServiceName = "platform"

const maxResponseBody = 10 << 20

// TokenSource supplies the bearer token for outgoing calls.
type TokenSource interface {
	Token() string
}

// Client calls the chalet platform REST API. The zero token source sends
// requests without an Authorization header.
type Client struct {
	baseURL *url.URL
	doer    httpclient.Doer
	tokens  TokenSource
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New returns a client for the platform at baseURL.
func New(baseURL string, doer httpclient.Doer, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse platform URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("platform URL %q must be absolute", baseURL)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: u,
		doer:    doer,
		logger:  log,
		tracer:  tracing.Tracer("github.com/BAZAR-APP/admin-panel/internal/upstream"),
	}, nil
}

// WithTokens returns a copy of the client that authenticates with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	clone := *c
	clone.tokens = ts
	return &clone
}

// Get decodes the JSON answer of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the answer into out when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch sends body as JSON and decodes the answer into out when non-nil.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Reachable dials the platform host.
func (c *Client) Reachable(ctx context.Context) error {
	host := c.baseURL.Host
	if c.baseURL.Port() == "" {
		port := "80"
		if c.baseURL.Scheme == "https" {
			port = "443"
		}
		host = net.JoinHostPort(c.baseURL.Hostname(), port)
	}
	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return fmt.Errorf("platform unreachable: %w", err)
	}
	_ = conn.Close()
	return nil
}

func (c *Client) endpoint(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + ref.Path
	u.RawQuery = ref.RawQuery
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, method+" "+routeOf(path), trace.WithSpanKind(trace.SpanKindClient))
	status := 0
	defer func() {
		tracing.End(span, err, attribute.String("http.method", method), attribute.Int("http.status_code", status))
	}()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.CorrelationHeader, id)
	}
	tracing.InjectHeaders(ctx, req.Header)

	start := time.Now()
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		if ue, ok := httpclient.AsUpstreamError(err); ok {
			status = ue.Status
		}
		c.logger.WarnContext(ctx, "platform call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %w", method, path, httpclient.ParseResponseError(resp, ServiceName))
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "platform call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// routeOf drops IDs and the query from path so span names stay bounded.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if i > 1 && looksLikeID(p) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func looksLikeID(segment string) bool {
	if len(segment) < 8 {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r == '-':
		default:
			return false
		}
	}
	return true
}
