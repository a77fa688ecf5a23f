// Package conquest is a client for the Conquest asset-management web API.
// It handles token acquisition and refresh, file imports with batch state
// tracking, and record access for assets, actions and system information.
package conquest

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Record is a single Conquest record. Field sets are defined per site, so
// records decode into plain maps instead of fixed structs.
type Record map[string]any

// Config contains the settings for a Conquest API connection.
type Config struct {
	// BaseURL is the root of the Conquest web API, e.g. "https://api.example.gov.au".
	BaseURL string
	// Connection is the name of the Conquest connection to operate on. It is
	// sent as the X-ConnectionName header on every request.
	Connection string
	Username   string
	Password   string
	// InsecureSkipVerify disables TLS certificate verification for sites
	// running the API behind self-signed certificates.
	InsecureSkipVerify bool
	// Timeout bounds each HTTP request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Client is a Conquest web API client. All methods are safe for concurrent
// use.
type Client struct {
	baseURL    string
	connection string
	httpClient *http.Client
	tokens     *tokenSource
	logger     *slog.Logger
}

// NewClient creates a Conquest API client for a single connection.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Connection == "" {
		return nil, fmt.Errorf("connection name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	clientLogger := logger.With("component", "conquest-client")

	return &Client{
		baseURL:    baseURL,
		connection: cfg.Connection,
		httpClient: httpClient,
		tokens: newTokenSource(baseURL+"/api/token", cfg.Connection,
			cfg.Username, cfg.Password, httpClient, clientLogger),
		logger: clientLogger,
	}, nil
}

// Token returns a bearer token for the configured connection, reusing the
// cached one while it remains valid.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Token(ctx)
}

// newRequest builds an authenticated request for an API path, obtaining a
// token first.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-ConnectionName", c.connection)
	req.Header.Set("Authorization", "bearer "+token)
	return req, nil
}

// do performs an authenticated request and returns the response status and
// body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return 0, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("API request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// doJSON performs an authenticated request and decodes a JSON response into
// result. Non-2xx responses are returned as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	status, respBody, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return newAPIError(status, respBody)
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// getRecord fetches a single record, mapping the API's ErrorType payload to
// ErrNotFound.
func (c *Client) getRecord(ctx context.Context, path string) (Record, error) {
	var record Record
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "", &record); err != nil {
		return nil, err
	}
	if _, ok := record["ErrorType"]; ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// findRecord posts a field/value search form and returns the unique match.
func (c *Client) findRecord(ctx context.Context, path, field, value string) (Record, error) {
	form := url.Values{}
	form.Set("Field", field)
	form.Set("Value", value)

	var record Record
	err := c.doJSON(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", &record)
	if err != nil {
		return nil, err
	}
	if _, ok := record["ErrorType"]; ok {
		return nil, ErrNotFound
	}
	return record, nil
}
