package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/xomify/cli/internal/cache"
	"github.com/xomify/cli/internal/services"
	"github.com/xomify/cli/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService services.StreamingService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if config.Credentials.Spotify.AccessToken != "" {
				svc.OAuthenticate(context.Background(), config.Credentials.Spotify.Token())
			}
			spotifyService = svc
		}
	}

	backendService := services.NewBackendService(config.Credentials.Backend.BaseURL, config.Credentials.Backend.Token, nil)

	store := cache.Store(cache.NewMemoryStore())
	if config.Database.Path != "" {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			store = cache.NewSQLiteStore(db)
		} else {
			logger.Warn("cache database unavailable, falling back to in-memory cache", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Backend: backendService,
		Cache:   cache.New(store, logger),
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "xomify",
		Usage:    "Release radar and genre analytics for your streaming library",
		Version:  "0.3.0",
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
