package conquest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// refreshWindow is how close to expiry a cached token stops being reused and
// gets refreshed instead.
const refreshWindow = 180 * time.Second

// tokenResponse is the token endpoint payload. Error and ErrorDescription
// are only present when a grant is rejected.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// tokenSource obtains bearer tokens for the Conquest API. The first request
// uses a password grant; afterwards the token is cached in memory and
// refreshed with the refresh token once it nears expiry.
type tokenSource struct {
	endpoint   string
	connection string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	tokenMutex   sync.RWMutex
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time
}

func newTokenSource(endpoint, connection, username, password string, httpClient *http.Client, logger *slog.Logger) *tokenSource {
	return &tokenSource{
		endpoint:   endpoint,
		connection: connection,
		username:   username,
		password:   password,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Token returns a valid bearer token, obtaining or refreshing one as needed.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.tokenMutex.RLock()
	if t.accessToken != "" && time.Until(t.tokenExpiry) > refreshWindow {
		token := t.accessToken
		t.tokenMutex.RUnlock()
		return token, nil
	}
	t.tokenMutex.RUnlock()

	t.tokenMutex.Lock()
	defer t.tokenMutex.Unlock()

	// Double-check after acquiring the write lock (another goroutine might
	// have obtained a token already)
	if t.accessToken != "" && time.Until(t.tokenExpiry) > refreshWindow {
		return t.accessToken, nil
	}

	if t.accessToken == "" {
		if err := t.passwordGrant(ctx); err != nil {
			return "", err
		}
	} else {
		if err := t.refreshGrant(ctx); err != nil {
			return "", err
		}
	}
	return t.accessToken, nil
}

// passwordGrant obtains the initial token with the configured credentials.
// Must be called with the write lock held.
func (t *tokenSource) passwordGrant(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", t.username)
	form.Set("password", t.password)

	resp, err := t.grant(ctx, form)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return &AuthError{Code: resp.Error, Description: resp.ErrorDescription}
	}

	t.store(resp)
	return nil
}

// refreshGrant exchanges the refresh token for a new token pair. Must be
// called with the write lock held.
func (t *tokenSource) refreshGrant(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", t.refreshToken)

	resp, err := t.grant(ctx, form)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return ErrTokenDataMissing
	}

	t.store(resp)
	return nil
}

// grant posts a grant form to the token endpoint. The endpoint reports
// rejected grants with an error payload rather than the status code alone,
// so the response is decoded regardless of status and left to the caller to
// judge.
func (t *tokenSource) grant(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("X-ConnectionName", t.connection)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	t.logger.Debug("token request", "grant_type", form.Get("grant_type"))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	return &tokenResp, nil
}

// store updates the cached token pair and its expiry.
func (t *tokenSource) store(resp *tokenResponse) {
	t.accessToken = resp.AccessToken
	t.refreshToken = resp.RefreshToken
	t.tokenExpiry = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	t.logger.Debug("token updated", "expires_in", resp.ExpiresIn)
}
