package repository

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

	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/pkg/config"
	appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"
	"github.com/noah-isme/inteduweb-admin/pkg/middleware/requestid"
)

const maxErrorBody = 4 << 10

// UpstreamObserver receives timing for every backend call.
type UpstreamObserver interface {
	ObserveUpstreamRequest(resource, method string, status int, duration time.Duration)
}

// RESTClient issues JSON requests against the backend API base URL.
type RESTClient struct {
	baseURL *url.URL
	token   string
	client  *http.Client
	metrics UpstreamObserver
	logger  *zap.Logger
	now     func() time.Time
}

// NewRESTClient validates the base URL and builds a client with the configured timeout.
func NewRESTClient(cfg config.UpstreamConfig, metrics UpstreamObserver, logger *zap.Logger) (*RESTClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RESTClient{
		baseURL: base,
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Do sends one request. label names the resource for metrics. A nil out
// discards the response body.
func (c *RESTClient) Do(ctx context.Context, label, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := c.now()
	resp, err := c.client.Do(req)
	duration := c.now().Sub(start)
	if err != nil {
		c.observe(label, method, 0, duration)
		return appErrors.Upstream(0, err)
	}
	defer resp.Body.Close()
	c.observe(label, method, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("upstream request failed",
			zap.String("method", method),
			zap.String("url", target.String()),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return appErrors.Upstream(resp.StatusCode, fmt.Errorf("%s %s: %s", method, target.Path, strings.TrimSpace(string(snippet))))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return appErrors.Upstream(0, fmt.Errorf("decode %s %s response: %w", method, target.Path, err))
	}
	return nil
}

func (c *RESTClient) observe(label, method string, status int, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveUpstreamRequest(label, method, status, duration)
}
