package conquest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestServer starts a server that issues a fixed token and hands every
// other request to handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "test-token",
				"refresh_token": "test-refresh",
				"expires_in":    3600,
			})
			return
		}
		handler(w, r)
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    baseURL,
		Connection: "TestConnection",
		Username:   "importer",
		Password:   "secret",
	}, testLogger())
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "missing base URL",
			config:  Config{Connection: "Conquest"},
			wantErr: "base URL",
		},
		{
			name:    "missing connection",
			config:  Config{BaseURL: "https://api.example.gov.au"},
			wantErr: "connection name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config, testLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL:    "https://api.example.gov.au/",
		Connection: "Conquest",
	}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.gov.au", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_RequestHeaders(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "TestConnection", r.Header.Get("X-ConnectionName"))
		json.NewEncoder(w).Encode(Record{"AssetID": 1})
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Asset(context.Background(), 1)
	require.NoError(t, err)
}

func TestClient_APIErrorDecoding(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ErrorType":"ApplicationException","Message":"An error has occurred."}`))
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Asset(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "ApplicationException", apiErr.ErrorType)
	assert.Equal(t, "An error has occurred.", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "ApplicationException")
}

func TestClient_APIErrorPlainBody(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Asset(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Body)
	assert.Contains(t, apiErr.Error(), "upstream unavailable")
}

func TestClient_NetworkError(t *testing.T) {
	// Use a port that won't connect
	client := newTestClient(t, "http://localhost:1")
	_, err := client.Connections(context.Background())
	assert.Error(t, err)
}
