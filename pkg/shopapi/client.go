// Package shopapi is the gateway to the remote shop API. Every call goes
// through Client.Do, which attaches the bearer token, encodes and decodes
// JSON and turns failures into *APIError values.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Tokens is the token side of one session. The gateway reads the access
// token for every request and, under the refresh policy, replaces it or
// expires the session.
type Tokens interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
	UpdateAccessToken(ctx context.Context, token string) error
	Expire(ctx context.Context) error
}

type Config struct {
	BaseURL string
	// RefreshOnUnauthorized retries a 401 once after refreshing the access
	// token.
	RefreshOnUnauthorized bool
	// HTTPClient overrides the default traced client.
	HTTPClient *http.Client
}

// Client represents a shop API client. A Client without tokens sends
// anonymous requests; WithSession binds one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	refresh    bool
	tokens     Tokens
}

// NewClient creates a new shop API client. No request timeout is set;
// callers bound requests through their context.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid config: base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		refresh:    cfg.RefreshOnUnauthorized,
	}, nil
}

// WithSession returns a copy of the client that authenticates with tokens.
func (c *Client) WithSession(tokens Tokens) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// Do sends one request. body is JSON encoded when non-nil. out receives the
// decoded body of a 2xx JSON response; other content types leave it as is.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	err := c.send(ctx, method, endpoint, payload, out)
	if !c.shouldRefresh(ctx, endpoint, err) {
		return err
	}

	if rerr := c.refreshAccessToken(ctx); rerr != nil {
		if !RefreshRejected(rerr) {
			logger.Warn("Access token refresh unavailable, keeping session", map[string]interface{}{
				"endpoint": endpoint,
				"status":   StatusCode(rerr),
				"error":    rerr.Error(),
			})
			return fmt.Errorf("%w: %w (after %v)", ErrRefreshUnavailable, rerr, err)
		}
		logger.Warn("Refresh token rejected, ending session", map[string]interface{}{
			"endpoint": endpoint,
			"error":    rerr.Error(),
		})
		c.expire(ctx)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	err = c.send(ctx, method, endpoint, payload, out)
	if StatusCode(err) == http.StatusUnauthorized {
		c.expire(ctx)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.accessToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Shop API unreachable", map[string]interface{}{
			"method":   method,
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	logger.Debug("Shop API call", map[string]interface{}{
		"method":      method,
		"endpoint":    endpoint,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Login, register and refresh calls are never retried: a 401 there is an
// answer, not an expired token.
var noRefreshEndpoints = []string{
	endpointLogin,
	endpointRegister,
	endpointTokenRefresh,
}

func (c *Client) shouldRefresh(ctx context.Context, endpoint string, err error) bool {
	if !c.refresh || c.tokens == nil || StatusCode(err) != http.StatusUnauthorized {
		return false
	}
	for _, e := range noRefreshEndpoints {
		if endpoint == e {
			return false
		}
	}
	return c.tokens.RefreshToken(ctx) != ""
}

func (c *Client) refreshAccessToken(ctx context.Context) error {
	access, err := c.Auth().RefreshToken(ctx, c.tokens.RefreshToken(ctx))
	if err != nil {
		return err
	}
	return c.tokens.UpdateAccessToken(ctx, access)
}

func (c *Client) accessToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken(ctx)
}

func (c *Client) expire(ctx context.Context) {
	if err := c.tokens.Expire(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Failed to clear expired session", err)
	}
}
