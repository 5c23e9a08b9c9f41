package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/storefront/internal/config"
	"github.com/yungbote/storefront/internal/domain"
	"github.com/yungbote/storefront/internal/observability"
	"github.com/yungbote/storefront/internal/platform/ctxutil"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type Options struct {
	BaseURL string
	APIKey  string

	Timeout    time.Duration
	MaxRetries int

	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration

	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client talks JSON to the storefront API. Reads are retried on transport
// errors and 5xx/429; writes are sent exactly once.
type Client struct {
	baseURL string
	apiKey  string

	timeout    time.Duration
	maxRetries int
	backoff    time.Duration

	httpClient *http.Client
	log        *logger.Logger
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("baseURL %q is not absolute", baseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		maxRetries: maxRetries,
		backoff:    backoff,
		httpClient: hc,
		log:        log.With("component", "api_client"),
	}, nil
}

func NewFromConfig(cfg config.APIConfig, log *logger.Logger) (*Client, error) {
	return New(Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Timeout:    cfg.Timeout.Duration,
		MaxRetries: cfg.MaxRetries,
		Logger:     log,
	})
}

func (c *Client) BaseURL() string { return c.baseURL }

// Get fetches path (relative to the base URL) and decodes the body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, c.maxRetries)
}

// Post sends body once. A lost response is not replayed.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, query, body, out, 0)
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any, retries int) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := observability.Tracer().Start(ctx, "storefront.api "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := ctxutil.RequestID(ctx)
	log := c.log.With("method", method, "path", path, "request_id", requestID)

	var lastErr error
	backoff := c.backoff
attempts:
	for attempt := 0; attempt <= retries; attempt++ {
		if ctx2.Err() != nil {
			lastErr = ctx2.Err()
			break
		}

		var rdr io.Reader = http.NoBody
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx2, method, target, rdr)
		if err != nil {
			return err
		}
		c.setHeaders(req, requestID)
		otel.GetTextMapPropagator().Inject(ctx2, propagation.HeaderCarrier(req.Header))

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		retryable := true
		if err != nil {
			lastErr = err
			log.Debug("api request failed", "attempt", attempt, "error", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			log.Debug("api request", "attempt", attempt, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				lastErr = parseHTTPError(resp.StatusCode, raw)
				retryable = resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
			default:
				if out == nil || len(bytes.TrimSpace(raw)) == 0 {
					return nil
				}
				if err := json.Unmarshal(raw, out); err != nil {
					span.RecordError(err)
					return fmt.Errorf("decode %s %s: %w", method, path, err)
				}
				return nil
			}
		}

		if !retryable || attempt >= retries {
			break
		}
		log.Warn("retrying api request", "attempt", attempt+1, "backoff_ms", backoff.Milliseconds(), "error", lastErr)
		select {
		case <-ctx2.Done():
			lastErr = ctx2.Err()
			break attempts
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())

	var he *HTTPError
	if errors.As(lastErr, &he) {
		return lastErr
	}
	// The caller cancelling is not the API being down.
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %s %s: %v", domain.ErrUnreachable, method, path, lastErr)
}
