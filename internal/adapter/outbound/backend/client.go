package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/shared/config"
	"github.com/teamdeck/console/internal/utils/metrics"
	"github.com/teamdeck/console/internal/utils/requestctx"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
	breakerName     = "backend"
)

var errServerStatus = errors.New("backend server error")

// rawResponse is a fully read backend response.
type rawResponse struct {
	req    *http.Request
	status int
	header http.Header
	body   []byte
}

// Client is the one shared client for the REST backend. Browser
// credentials are forwarded from the request context on every call.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[*rawResponse]
	metrics  *metrics.Metrics
	logger   *zap.Logger
	navPaths []string
}

// New creates a backend client. m may be nil.
func New(cfg config.BackendConfig, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	c := &Client{
		baseURL:  base,
		http:     httpClient,
		metrics:  m,
		logger:   logger,
		navPaths: cfg.NavigationPaths,
	}
	if len(c.navPaths) == 0 {
		c.navPaths = []string{"/auth/verify"}
	}

	c.breaker = gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    orDefault(cfg.CircuitInterval, 60*time.Second),
		Timeout:     orDefault(cfg.CircuitTimeout, 30*time.Second),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller going away says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("backend circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if c.metrics != nil {
				c.metrics.SetCircuitState(name, int(to))
			}
		},
	})
	return c, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// BreakerState exposes the circuit state for health reporting.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// call describes one backend request.
type call struct {
	op     string
	method string
	path   string
	body   any
}

// do executes a call and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	raw, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.body, out); err != nil {
		return fmt.Errorf("backend %s: decode response: %w", cl.op, err)
	}
	return nil
}

// send executes a call and classifies the response.
func (c *Client) send(ctx context.Context, cl call) (*rawResponse, error) {
	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("backend %s: marshal request: %w", cl.op, err)
		}
		payload = b
	}

	start := time.Now()
	raw, err := c.breaker.Execute(func() (*rawResponse, error) {
		return c.roundTrip(ctx, cl, payload)
	})
	c.record(cl.op, raw, time.Since(start))

	if err != nil && !errors.Is(err, errServerStatus) {
		c.logger.Debug("backend call failed",
			zap.String("op", cl.op),
			zap.String("request_id", requestctx.RequestID(ctx)),
			zap.Error(err),
		)
		return nil, unavailable(cl.op, err)
	}

	requestctx.Sink(ctx).Add(raw.header.Values("Set-Cookie")...)

	if target, ok := c.navigationTarget(raw.req, raw.status, raw.header, raw.body); ok {
		return nil, &outbound.NavigationError{Op: cl.op, Location: target}
	}
	if raw.status >= 300 {
		return nil, &outbound.APIError{
			Op:      cl.op,
			Status:  raw.status,
			Message: extractMessage(raw.body),
			Body:    raw.body,
		}
	}
	return raw, nil
}

func (c *Client) roundTrip(ctx context.Context, cl call, payload []byte) (*rawResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.resolve(cl.path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	creds := requestctx.CredentialsFrom(ctx)
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.Authorization != "" {
		req.Header.Set("Authorization", creds.Authorization)
	}
	if id := requestctx.RequestID(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	raw := &rawResponse{req: req, status: resp.StatusCode, header: resp.Header, body: data}
	if resp.StatusCode >= 500 {
		return raw, errServerStatus
	}
	return raw, nil
}

func (c *Client) resolve(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) record(op string, raw *rawResponse, d time.Duration) {
	if c.metrics == nil {
		return
	}
	status := "error"
	if raw != nil {
		status = strconv.Itoa(raw.status)
	}
	c.metrics.RecordBackendCall(op, status, d)
}

// pathf formats a path whose arguments are escaped path segments.
func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			escaped[i] = url.PathEscape(v)
		default:
			escaped[i] = v
		}
	}
	return fmt.Sprintf(format, escaped...)
}
