package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Config represents the CLI configuration
type Config struct {
	API     APIConfig     `json:"api"`
	Import  ImportConfig  `json:"import"`
	History HistoryConfig `json:"history"`
	Logging LoggingConfig `json:"logging"`
}

// APIConfig contains Conquest web API connection settings
type APIConfig struct {
	BaseURL    string `json:"base_url"`
	Connection string `json:"connection"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	// InsecureSkipVerify disables TLS verification for self-signed sites
	InsecureSkipVerify bool `json:"insecure_skip_verify"`
	TimeoutSeconds     int  `json:"timeout_seconds"`
}

// ImportConfig contains import workflow settings
type ImportConfig struct {
	// OutputDir receives error report files
	OutputDir      string `json:"output_dir"`
	PollIntervalMS int    `json:"poll_interval_ms"`
}

// HistoryConfig contains import history database settings
type HistoryConfig struct {
	Path string `json:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: API base URL is required", ErrInvalidConfig)
	}

	if c.API.Connection == "" {
		return fmt.Errorf("%w: connection name is required", ErrInvalidConfig)
	}

	if c.API.Username == "" || c.API.Password == "" {
		return fmt.Errorf("%w: API credentials are required", ErrInvalidConfig)
	}

	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}

	if c.Import.PollIntervalMS < 0 {
		return fmt.Errorf("%w: poll interval must not be negative", ErrInvalidConfig)
	}

	if c.History.Path == "" {
		return fmt.Errorf("%w: history database path is required", ErrInvalidConfig)
	}

	return nil
}

// Load loads configuration from a JSON file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadFromEnv loads configuration from environment variables
// This is useful for containerized deployments
func LoadFromEnv() (*Config, error) {
	config := &Config{
		API: APIConfig{
			BaseURL:            getEnv("CONQUEST_API_URL", ""),
			Connection:         getEnv("CONQUEST_CONNECTION", "Conquest"),
			Username:           getEnv("CONQUEST_USERNAME", ""),
			Password:           getEnv("CONQUEST_PASSWORD", ""),
			InsecureSkipVerify: getEnvBool("CONQUEST_INSECURE_SKIP_VERIFY", false),
			TimeoutSeconds:     getEnvInt("CONQUEST_TIMEOUT_SECONDS", 30),
		},
		Import: ImportConfig{
			OutputDir:      getEnv("CONQUEST_OUTPUT_DIR", ""),
			PollIntervalMS: getEnvInt("CONQUEST_POLL_INTERVAL_MS", 100),
		},
		History: HistoryConfig{
			Path: getEnv("CONQUEST_HISTORY_PATH", "./conquest-history.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("CONQUEST_LOG_LEVEL", "info"),
			Format: getEnv("CONQUEST_LOG_FORMAT", "text"),
			File:   getEnv("CONQUEST_LOG_FILE", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		fmt.Sscanf(value, "%d", &intVal)
		return intVal
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
