package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				API: APIConfig{
					BaseURL:        "https://conquest.example.gov.au",
					Connection:     "Conquest",
					Username:       "importer",
					Password:       "secret",
					TimeoutSeconds: 30,
				},
				Import:  ImportConfig{PollIntervalMS: 100},
				History: HistoryConfig{Path: "/path/to/history.db"},
			},
			wantErr: false,
		},
		{
			name: "missing base URL",
			config: Config{
				API: APIConfig{
					Connection: "Conquest",
					Username:   "importer",
					Password:   "secret",
				},
				History: HistoryConfig{Path: "/path/to/history.db"},
			},
			wantErr: true,
		},
		{
			name: "missing connection",
			config: Config{
				API: APIConfig{
					BaseURL:  "https://conquest.example.gov.au",
					Username: "importer",
					Password: "secret",
				},
				History: HistoryConfig{Path: "/path/to/history.db"},
			},
			wantErr: true,
		},
		{
			name: "missing credentials",
			config: Config{
				API: APIConfig{
					BaseURL:    "https://conquest.example.gov.au",
					Connection: "Conquest",
					Username:   "importer",
				},
				History: HistoryConfig{Path: "/path/to/history.db"},
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: Config{
				API: APIConfig{
					BaseURL:        "https://conquest.example.gov.au",
					Connection:     "Conquest",
					Username:       "importer",
					Password:       "secret",
					TimeoutSeconds: -5,
				},
				History: HistoryConfig{Path: "/path/to/history.db"},
			},
			wantErr: true,
		},
		{
			name: "negative poll interval",
			config: Config{
				API: APIConfig{
					BaseURL:    "https://conquest.example.gov.au",
					Connection: "Conquest",
					Username:   "importer",
					Password:   "secret",
				},
				Import:  ImportConfig{PollIntervalMS: -1},
				History: HistoryConfig{Path: "/path/to/history.db"},
			},
			wantErr: true,
		},
		{
			name: "missing history path",
			config: Config{
				API: APIConfig{
					BaseURL:    "https://conquest.example.gov.au",
					Connection: "Conquest",
					Username:   "importer",
					Password:   "secret",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	validConfig := `{
		"api": {
			"base_url": "https://conquest.example.gov.au",
			"connection": "Conquest",
			"username": "importer",
			"password": "secret",
			"insecure_skip_verify": true,
			"timeout_seconds": 60
		},
		"import": {
			"output_dir": "/var/conquest/reports",
			"poll_interval_ms": 250
		},
		"history": {
			"path": "/var/conquest/history.db"
		},
		"logging": {
			"level": "debug",
			"format": "json"
		}
	}`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	// Test loading valid config
	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://conquest.example.gov.au", config.API.BaseURL)
	assert.Equal(t, "Conquest", config.API.Connection)
	assert.Equal(t, "importer", config.API.Username)
	assert.True(t, config.API.InsecureSkipVerify)
	assert.Equal(t, 60, config.API.TimeoutSeconds)
	assert.Equal(t, "/var/conquest/reports", config.Import.OutputDir)
	assert.Equal(t, 250, config.Import.PollIntervalMS)
	assert.Equal(t, "/var/conquest/history.db", config.History.Path)
	assert.Equal(t, "debug", config.Logging.Level)

	// Test loading non-existent file
	_, err = Load("/nonexistent/config.json")
	assert.ErrorIs(t, err, ErrConfigFileNotFound)

	// Test loading invalid JSON
	invalidPath := filepath.Join(tmpDir, "invalid.json")
	err = os.WriteFile(invalidPath, []byte("invalid json"), 0644)
	require.NoError(t, err)

	_, err = Load(invalidPath)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	// Set environment variables
	os.Setenv("CONQUEST_API_URL", "https://conquest.example.gov.au")
	os.Setenv("CONQUEST_CONNECTION", "ConquestTraining")
	os.Setenv("CONQUEST_USERNAME", "env-user")
	os.Setenv("CONQUEST_PASSWORD", "env-pass")
	os.Setenv("CONQUEST_INSECURE_SKIP_VERIFY", "true")
	os.Setenv("CONQUEST_TIMEOUT_SECONDS", "45")
	os.Setenv("CONQUEST_POLL_INTERVAL_MS", "200")
	os.Setenv("CONQUEST_HISTORY_PATH", "/custom/history.db")
	os.Setenv("CONQUEST_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("CONQUEST_API_URL")
		os.Unsetenv("CONQUEST_CONNECTION")
		os.Unsetenv("CONQUEST_USERNAME")
		os.Unsetenv("CONQUEST_PASSWORD")
		os.Unsetenv("CONQUEST_INSECURE_SKIP_VERIFY")
		os.Unsetenv("CONQUEST_TIMEOUT_SECONDS")
		os.Unsetenv("CONQUEST_POLL_INTERVAL_MS")
		os.Unsetenv("CONQUEST_HISTORY_PATH")
		os.Unsetenv("CONQUEST_LOG_LEVEL")
	}()

	config, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://conquest.example.gov.au", config.API.BaseURL)
	assert.Equal(t, "ConquestTraining", config.API.Connection)
	assert.Equal(t, "env-user", config.API.Username)
	assert.Equal(t, "env-pass", config.API.Password)
	assert.True(t, config.API.InsecureSkipVerify)
	assert.Equal(t, 45, config.API.TimeoutSeconds)
	assert.Equal(t, 200, config.Import.PollIntervalMS)
	assert.Equal(t, "/custom/history.db", config.History.Path)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnv_MissingCredentials(t *testing.T) {
	os.Setenv("CONQUEST_API_URL", "https://conquest.example.gov.au")
	defer os.Unsetenv("CONQUEST_API_URL")

	_, err := LoadFromEnv()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
