// Package fetch is the outbound HTTP pipeline shared by provider clients:
// cache, circuit breaker, rate limit and bounded retry around a GET.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sports-sync/internal/platform/cache"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/metrics"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/platform/resilience"
	"github.com/riskibarqy/sports-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultMaxBodyBytes = 6 << 20
)

var errTransient = crerr.New("transient provider failure")

type Config struct {
	Provider   string
	BaseURL    string
	Headers    map[string]string
	HTTPClient *http.Client
	Timeout    time.Duration
	Retry      resilience.RetryPolicy
	Limiter    ratelimit.Limiter
	// LimiterKey defaults to "rate_limit:<provider>".
	LimiterKey     string
	Cache          cache.Cache
	CircuitBreaker resilience.CircuitBreakerConfig
	MaxBodyBytes   int64
	Logger         *logging.Logger
}

type Request struct {
	// Endpoint labels metrics; it defaults to Path.
	Endpoint string
	Path     string
	Query    url.Values
	// TTL of zero skips the cache.
	TTL time.Duration
	// Validate inspects the body before it is cached. A validation error is
	// returned as is.
	Validate func(body []byte) error
}

type Client struct {
	provider     string
	baseURL      string
	headers      map[string]string
	httpClient   *http.Client
	retry        resilience.RetryPolicy
	limiter      ratelimit.Limiter
	limiterKey   string
	cache        cache.Cache
	breaker      *resilience.CircuitBreaker
	maxBodyBytes int64
	logger       *logging.Logger
	flight       resilience.SingleFlight[[]byte]
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	provider := strings.TrimSpace(cfg.Provider)
	logger = logger.With("provider", provider)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient.Timeout <= 0 {
		clone := *httpClient
		clone.Timeout = timeout
		httpClient = &clone
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	limiterKey := strings.TrimSpace(cfg.LimiterKey)
	if limiterKey == "" {
		limiterKey = "rate_limit:" + provider
	}
	store := cfg.Cache
	if store == nil {
		store = cache.Noop{}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
		open := 0.0
		if to == resilience.CircuitStateOpen {
			open = 1
		}
		metrics.BreakerState.WithLabelValues(provider).Set(open)
		logger.Warn("provider circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		provider:     provider,
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		headers:      cfg.Headers,
		httpClient:   httpClient,
		retry:        cfg.Retry.Normalize(),
		limiter:      limiter,
		limiterKey:   limiterKey,
		cache:        store,
		breaker:      breaker,
		maxBodyBytes: maxBody,
		logger:       logger,
	}
}

func (c *Client) Provider() string {
	return c.provider
}

// Usage reports the limiter quota of this provider.
func (c *Client) Usage(ctx context.Context) (ratelimit.Usage, error) {
	return c.limiter.Usage(ctx, c.limiterKey)
}

// BreakerState is closed when no breaker is configured.
func (c *Client) BreakerState() resilience.CircuitState {
	if c.breaker == nil {
		return resilience.CircuitStateClosed
	}
	return c.breaker.State()
}

// Get returns the body of a successful GET. A cache hit costs no rate
// limit permit and no network call.
func (c *Client) Get(ctx context.Context, req Request) ([]byte, error) {
	query := req.Query.Encode()
	key := cache.Key(c.provider, req.Path, query)

	if req.TTL > 0 {
		body, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.WarnContext(ctx, "fetch cache read failed", "key", key, "error", err)
		}
		metrics.RecordCache(c.provider, hit && err == nil)
		if hit && err == nil {
			return body, nil
		}
	}

	body, err, _ := c.flight.Do(key, func() ([]byte, error) {
		return c.fetch(ctx, req, query)
	})
	if err != nil {
		return nil, err
	}

	if req.TTL > 0 {
		if err := c.cache.Set(ctx, key, body, req.TTL); err != nil {
			c.logger.WarnContext(ctx, "fetch cache write failed", "key", key, "error", err)
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, req Request, query string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "path", req.Path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: %w: provider %s is temporarily unavailable", usecase.ErrDataFetch, usecase.ErrDependencyUnavailable, c.provider)
	}

	fullURL := c.buildURL(req.Path, query)
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}

	var body []byte
	err := resilience.Retry(ctx, c.retry, isTransient, func(ctx context.Context, attempt int) error {
		if _, err := c.limiter.Acquire(ctx, c.limiterKey); err != nil {
			metrics.RateLimited.WithLabelValues(c.provider).Inc()
			return err
		}
		var err error
		body, err = c.do(ctx, fullURL, endpoint)
		if err != nil && isTransient(err) {
			c.logger.WarnContext(ctx, "provider request attempt failed",
				"path", req.Path,
				"attempt", attempt,
				"max_attempts", c.retry.MaxAttempts,
				"error", err,
			)
		}
		return err
	})
	c.breaker.Record(err, isTransient)
	if err != nil {
		return nil, c.classify(err)
	}

	if req.Validate != nil {
		if err := req.Validate(body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, fullURL, endpoint string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	for name, value := range c.headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordFetch(c.provider, endpoint, 0)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Mark(crerr.Newf("send request: %s", c.sanitize(err.Error())), errTransient)
	}
	defer resp.Body.Close()
	metrics.RecordFetch(c.provider, endpoint, resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errTransient)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	statusErr := &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)}
	if isRetryableStatus(resp.StatusCode) {
		return nil, crerr.Mark(statusErr, errTransient)
	}
	return nil, statusErr
}

// classify maps pipeline failures onto the sync error taxonomy.
func (c *Client) classify(err error) error {
	var status *StatusError
	switch {
	case crerr.Is(err, ratelimit.ErrLimitExceeded):
		return fmt.Errorf("%w: %w", usecase.ErrRateLimitExceeded, err)
	case crerr.As(err, &status) && status.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: provider %s throttled the request: %w", usecase.ErrRateLimitExceeded, c.provider, err)
	case crerr.Is(err, context.Canceled), crerr.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: provider %s: %w", usecase.ErrDataFetch, c.provider, err)
	default:
		return fmt.Errorf("%w: provider %s: %v", usecase.ErrDataFetch, c.provider, err)
	}
}

func (c *Client) buildURL(path, query string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	if !strings.HasPrefix(path, "/") {
		_ = buf.WriteByte('/')
	}
	_, _ = buf.WriteString(path)
	if query != "" {
		_ = buf.WriteByte('?')
		_, _ = buf.WriteString(query)
	}
	return buf.String()
}

func (c *Client) sanitize(value string) string {
	for _, secret := range c.headers {
		if len(secret) >= 8 {
			value = strings.ReplaceAll(value, secret, "REDACTED")
		}
	}
	return value
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.Code, e.Body)
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
