package main

import (
	"context"
	"errors"
	"os"

	"github.com/ferrovax/amx/internal/services"
	"github.com/ferrovax/amx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	developerToken, err := config.Credentials.ResolveDeveloperToken()
	if err != nil {
		logger.Warn("no developer token configured", "error", err)
	}

	factory := func(userToken string) services.Catalog {
		return services.NewAppleMusicService(
			services.Credentials{Developer: developerToken, User: userToken},
			services.ClientOpts{
				BaseURL:    config.API.BaseURL,
				Storefront: config.API.Storefront,
				RateLimit:  config.API.RateLimit,
				MaxRetries: config.API.MaxRetries,
				RetryDelay: config.API.RetryDelay(),
				Timeout:    config.API.Timeout(),
			},
		)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Factory: factory,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "amx",
		Usage:    "Aggregate an Apple Music library and build genre playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
