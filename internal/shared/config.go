package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	API         APIConfig         `toml:"api"`
	Aggregator  AggregatorConfig  `toml:"aggregator"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains the service-level credential presented to the catalog API.
//
// The per-user credential is never configured; it arrives with each sign-in.
type CredentialsConfig struct {
	DeveloperToken string `toml:"developer_token"`
	TokenPath      string `toml:"token_path"`
}

// APIConfig contains catalog API client settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	Storefront        string  `toml:"storefront"`
	RateLimit         float64 `toml:"rate_limit"`
	MaxRetries        int     `toml:"max_retries"`
	RetryDelaySeconds int     `toml:"retry_delay_seconds"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// AggregatorConfig contains tuning for the aggregation worker pool.
type AggregatorConfig struct {
	NumWorkers int `toml:"num_workers"`
}

// DatabaseConfig contains song cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// RetryDelay returns the configured backoff interval between transient retries.
func (a APIConfig) RetryDelay() time.Duration {
	return time.Duration(a.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-request deadline for outbound catalog calls.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ResolveDeveloperToken resolves the service credential, preferring the inline value over token_path.
func (c CredentialsConfig) ResolveDeveloperToken() (string, error) {
	if c.DeveloperToken != "" {
		return c.DeveloperToken, nil
	}

	if c.TokenPath == "" {
		return "", fmt.Errorf("%w: developer_token or token_path required", ErrMissingCredentials)
	}

	data, err := os.ReadFile(c.TokenPath)
	if err != nil {
		return "", fmt.Errorf("%w: reading token_path: %v", ErrMissingCredentials, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: token file %s is empty", ErrMissingCredentials, c.TokenPath)
	}

	return token, nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
