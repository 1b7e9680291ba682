// Package upstream contains the HTTP/JSON clients for the products, orders
// and suppliers services.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/time/rate"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/middleware"
	"inventory-hub/internal/observability"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Options configures a Client.
type Options struct {
	Timeout       time.Duration // per-call timeout
	HealthTimeout time.Duration // timeout for health probes
	RPS           float64       // outbound token bucket rate; 0 disables limiting
	Burst         int
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Client performs GET requests against one upstream service.
type Client struct {
	source        domain.Source
	baseURL       string
	healthPath    string
	httpClient    *http.Client
	timeout       time.Duration
	healthTimeout time.Duration
	limiter       *rate.Limiter
	logger        *slog.Logger
}

// NewClient creates a client for source rooted at baseURL.
func NewClient(source domain.Source, baseURL, healthPath string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	healthTimeout := opts.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	return &Client{
		source:        source,
		baseURL:       strings.TrimRight(baseURL, "/"),
		healthPath:    healthPath,
		httpClient:    httpClient,
		timeout:       timeout,
		healthTimeout: healthTimeout,
		limiter:       limiter,
		logger:        logger.With("upstream", string(source)),
	}
}

// Source returns the upstream this client talks to.
func (c *Client) Source() domain.Source { return c.source }

// Name implements domain.HealthChecker.
func (c *Client) Name() string { return string(c.source) }

// CheckHealth probes the upstream's health endpoint and returns the HTTP
// status it answered with. A non-2xx answer is reported as an error together
// with its status code.
func (c *Client) CheckHealth(ctx context.Context) (int, error) {
	return c.get(ctx, c.healthPath, nil, nil, c.healthTimeout)
}

// getJSON fetches path and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.get(ctx, path, query, out, c.timeout)
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, "upstream.get",
		attribute.String("upstream.source", string(c.source)),
		attribute.String("http.route", path),
	)
	defer span.End()

	start := time.Now()
	status, err := c.roundTrip(ctx, path, query, out)
	elapsed := time.Since(start)

	outcome := observability.OutcomeOK
	if err != nil {
		outcome = observability.OutcomeError
		if status == http.StatusNotFound {
			outcome = observability.OutcomeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	observability.UpstreamRequestsTotal.WithLabelValues(string(c.source), outcome).Inc()
	observability.UpstreamRequestDuration.WithLabelValues(string(c.source)).Observe(elapsed.Seconds())

	c.logger.DebugContext(ctx, "upstream call",
		"path", path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	)
	return status, err
}

func (c *Client) roundTrip(ctx context.Context, path string, query url.Values, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &domain.UpstreamError{Source: c.source, Err: fmt.Errorf("rate limit: %w", err)}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, &domain.UpstreamError{Source: c.source, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &domain.UpstreamError{Source: c.source, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &domain.UpstreamError{Source: c.source, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &domain.UpstreamError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, snippet(body)),
		}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, &domain.UpstreamError{Source: c.source, Err: fmt.Errorf("decode %s: %w", path, err)}
		}
	}
	return resp.StatusCode, nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
