package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.API.BaseURL != "https://api.music.apple.com" {
		t.Errorf("base URL = %q", config.API.BaseURL)
	}
	if config.API.Storefront != "us" {
		t.Errorf("storefront = %q, want us", config.API.Storefront)
	}
	if config.API.MaxRetries != 3 {
		t.Errorf("max retries = %d, want 3", config.API.MaxRetries)
	}
	if config.API.RetryDelay() != 5*time.Second {
		t.Errorf("retry delay = %v, want 5s", config.API.RetryDelay())
	}
	if config.API.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", config.API.Timeout())
	}
	if config.Aggregator.NumWorkers != 5 {
		t.Errorf("workers = %d, want 5", config.Aggregator.NumWorkers)
	}
	if config.Server.Port == 0 {
		t.Error("server port not set")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials]
developer_token = "dev-abc"

[api]
base_url = "https://example.test"
storefront = "gb"
max_retries = 1

[aggregator]
num_workers = 2
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if config.Credentials.DeveloperToken != "dev-abc" {
			t.Errorf("developer token = %q", config.Credentials.DeveloperToken)
		}
		if config.API.BaseURL != "https://example.test" {
			t.Errorf("base URL = %q", config.API.BaseURL)
		}
		if config.API.Storefront != "gb" {
			t.Errorf("storefront = %q", config.API.Storefront)
		}
		if config.Aggregator.NumWorkers != 2 {
			t.Errorf("workers = %d", config.Aggregator.NumWorkers)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed TOML is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile failed: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("created config does not load: %v", err)
	}
	if config.API.BaseURL == "" {
		t.Error("created config missing base URL")
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error overwriting existing config")
	}
}

func TestResolveDeveloperToken(t *testing.T) {
	t.Run("inline token wins", func(t *testing.T) {
		creds := CredentialsConfig{DeveloperToken: "inline", TokenPath: "/nonexistent"}

		token, err := creds.ResolveDeveloperToken()
		if err != nil {
			t.Fatalf("ResolveDeveloperToken failed: %v", err)
		}
		if token != "inline" {
			t.Errorf("token = %q, want inline", token)
		}
	})

	t.Run("reads and trims the token file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		if err := os.WriteFile(path, []byte("  file-token\n"), 0600); err != nil {
			t.Fatalf("failed to write token: %v", err)
		}

		creds := CredentialsConfig{TokenPath: path}
		token, err := creds.ResolveDeveloperToken()
		if err != nil {
			t.Fatalf("ResolveDeveloperToken failed: %v", err)
		}
		if token != "file-token" {
			t.Errorf("token = %q, want file-token", token)
		}
	})

	t.Run("empty config is missing credentials", func(t *testing.T) {
		if _, err := (CredentialsConfig{}).ResolveDeveloperToken(); !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("empty token file is missing credentials", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		if err := os.WriteFile(path, []byte("  \n"), 0600); err != nil {
			t.Fatalf("failed to write token: %v", err)
		}

		if _, err := (CredentialsConfig{TokenPath: path}).ResolveDeveloperToken(); !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
