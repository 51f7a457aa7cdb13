// Package gong is the HTTP client for the Gong REST API.
package gong

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/bobmcallan/gong-mcp/internal/config"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// Client issues requests against one Gong base URL with a static
// authorization header. It holds no per-request state and is safe for
// concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *common.Logger
	authorization string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a client-side timeout. Zero leaves requests bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for baseURL. When the credential pair is
// incomplete a warning is logged and requests are sent without Authorization.
func NewClient(baseURL string, creds config.Credentials, logger *common.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		logger:        logger,
		authorization: creds.AuthorizationHeader(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.authorization == "" {
		logger.Warn().
			Str("missing", strings.Join(creds.Missing(), ",")).
			Msg("ACCESS_KEY and ACCESS_KEY_SECRET environment variables are not set. API calls will likely fail.")
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authorization returns the static Authorization header value, or "" when
// no credentials are configured.
func (c *Client) Authorization() string {
	return c.authorization
}

// URL builds the absolute URL for r.
func (c *Client) URL(r Request) string {
	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Do sends r and returns the raw response body. Non-2xx responses return an
// *APIError; failures before a response arrives return a *TransportError.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	method := strings.ToUpper(r.Method)
	target := c.URL(r)

	body, err := r.encode()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body.reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}
	for key, vals := range r.Header {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	if body.contentType != "" {
		req.Header.Set("Content-Type", body.contentType)
	}

	logger := common.LoggerFromContext(ctx, c.logger)
	logRequest(logger, method, target, req.Header, body.summary)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error().Str("method", method).Str("url", target).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("gong request failed")
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("gong response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error().Int("status", resp.StatusCode).Str("url", target).Str("body", string(respBody)).Msg("gong response status")
		return nil, &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

// logRequest writes the three pre-flight diagnostic lines: request line,
// headers and body. The Authorization value is masked.
func logRequest(logger *common.Logger, method, target string, header http.Header, body string) {
	logger.Info().Str("method", method).Str("url", target).Msg("Request: " + method + " " + target)

	masked := make(map[string]string, len(header))
	for key := range header {
		val := header.Get(key)
		if strings.EqualFold(key, "Authorization") {
			if scheme, _, ok := strings.Cut(val, " "); ok {
				val = scheme + " ***"
			} else {
				val = "***"
			}
		}
		masked[key] = val
	}
	headers, _ := json.Marshal(masked)
	logger.Info().Str("headers", string(headers)).Msg("Headers")

	logger.Info().Str("data", body).Msg("Data")
}
