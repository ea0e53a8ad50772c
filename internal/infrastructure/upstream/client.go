// Package upstream implements the HTTP client for the collaborator API that
// stores work orders and accepts call/tag/delete mutations.  The tracking
// engine never talks HTTP directly; it consumes this client through a small
// interface so tests can swap in a fake.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/prometheus"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// Client talks to the collaborator locate API with bounded retries and
// exponential backoff.  All methods are safe for concurrent use.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	logger       logging.Logger
	metrics      *prometheus.AppMetrics
}

// NewClient builds a Client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.InvalidParam("upstream base URL is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.InvalidParam(fmt.Sprintf("invalid upstream base URL: %v", err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.InvalidParam("upstream base URL scheme must be http or https")
	}
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		retryMax:     cfg.RetryMax,
		retryWaitMin: cfg.RetryWaitMin,
		retryWaitMax: cfg.RetryWaitMax,
		logger:       logger.Named("upstream"),
		metrics:      metrics,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// API operations
// ─────────────────────────────────────────────────────────────────────────────

// FetchAllLocates retrieves the full dashboard payload.
func (c *Client) FetchAllLocates(ctx context.Context) ([]types.DashboardParent, error) {
	var parents []types.DashboardParent
	if err := c.do(ctx, "fetch_all_locates", http.MethodGet, "/locates/all-locates", nil, &parents); err != nil {
		return nil, err
	}
	return parents, nil
}

// SyncDashboard asks upstream to resync its dashboard data.  Only
// success/failure matters; the response body is discarded.
func (c *Client) SyncDashboard(ctx context.Context) error {
	return c.do(ctx, "sync_dashboard", http.MethodGet, "/locates/sync-dashboard", nil, nil)
}

// UpdateCallStatus records a locate call against one work order.  The
// operation is idempotent per id.
func (c *Client) UpdateCallStatus(ctx context.Context, id string, req types.UpdateCallStatusRequest) error {
	if id == "" {
		return errors.InvalidParam("work order id is required")
	}
	path := fmt.Sprintf("/locates/work-order/%s/update-call-status", url.PathEscape(id))
	return c.do(ctx, "update_call_status", http.MethodPatch, path, req, nil)
}

// DeleteWorkOrders deletes the given work orders.  Callers performing bulk
// deletes with independent per-item outcomes invoke this once per id.
func (c *Client) DeleteWorkOrders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return errors.InvalidParam("at least one work order id is required")
	}
	return c.do(ctx, "bulk_delete", http.MethodDelete, "/locates/work-order/bulk-delete", types.BulkDeleteRequest{IDs: ids}, nil)
}

// TagLocates attaches locates-needed metadata to a single work order.
func (c *Client) TagLocates(ctx context.Context, req types.TagRequest) error {
	return c.do(ctx, "tag_locates", http.MethodPost, "/locates/tag-locates-needed", req, nil)
}

// BulkTagLocates attaches locates-needed metadata to a set of work orders.
func (c *Client) BulkTagLocates(ctx context.Context, req types.BulkTagRequest) error {
	return c.do(ctx, "bulk_tag_locates", http.MethodPost, "/locates/bulk-tag-locates-needed", req, nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Transport
// ─────────────────────────────────────────────────────────────────────────────

// do performs one logical request with retry on network errors and 5xx
// responses.  4xx responses are never retried.
func (c *Client) do(ctx context.Context, operation, method, path string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to encode request body")
		}
	}

	start := time.Now()
	err := c.doWithRetry(ctx, method, path, payload, result)
	c.metrics.UpstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	return err
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, payload []byte, result interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debug("retrying upstream request",
				logging.String("method", method),
				logging.String("path", path),
				logging.Int("attempt", attempt),
				logging.Duration("backoff", backoff),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), errors.CodeTimeout, "upstream request cancelled")
			}
		}

		retryable, err := c.attempt(ctx, method, path, payload, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

// attempt performs a single HTTP round trip.  The bool reports whether the
// failure is retryable.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, result interface{}) (bool, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeInternal, "failed to build upstream request")
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			logging.String("method", method),
			logging.String("path", path),
			logging.String("request_id", requestID),
			logging.Err(err),
		)
		return true, errors.Wrap(err, errors.CodeUpstreamUnavailable, "upstream request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to read upstream response")
	}

	c.logger.Debug("upstream response",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.String("request_id", requestID),
		logging.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 500 {
		return true, upstreamError(errors.CodeUpstreamUnavailable, resp.StatusCode, requestID, respBody)
	}
	if resp.StatusCode >= 400 {
		return false, upstreamError(errors.CodeUpstreamRejected, resp.StatusCode, requestID, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return false, errors.Wrap(err, errors.CodeUpstreamDecode, "failed to decode upstream response")
		}
	}
	return false, nil
}

// upstreamError folds an error response body into an AppError.
func upstreamError(code errors.ErrorCode, status int, requestID string, body []byte) *errors.AppError {
	detail := fmt.Sprintf("HTTP %d [request_id=%s]", status, requestID)

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
		detail = fmt.Sprintf("%s: %s", detail, errResp.Message)
	} else if len(body) > 0 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		if msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
	}

	return errors.New(code, "upstream request rejected").WithDetail(detail)
}

// backoff returns the exponential backoff for a retry attempt with up to 25%
// jitter.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if d > c.retryWaitMax || d <= 0 {
		d = c.retryWaitMax
	}
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}
