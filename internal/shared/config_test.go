package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "xomify.db" {
			t.Errorf("expected database path xomify.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.RedirectURI != "http://localhost:3000/callback" {
			t.Errorf("expected default redirect URI, got %s", config.Credentials.Spotify.RedirectURI)
		}

		if config.Radar.LookbackDays != 90 {
			t.Errorf("expected lookback 90, got %d", config.Radar.LookbackDays)
		}
		if config.Radar.LookaheadDays != 30 {
			t.Errorf("expected lookahead 30, got %d", config.Radar.LookaheadDays)
		}
		if config.Radar.BatchSize != 5 {
			t.Errorf("expected batch size 5, got %d", config.Radar.BatchSize)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[credentials.backend]
base_url = "http://localhost:8000"
token = "service_token"

[radar]
lookback_days = 45
lookahead_days = 14
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Backend.Token != "service_token" {
			t.Errorf("expected backend token to be set, got %s", config.Credentials.Backend.Token)
		}

		if config.Radar.LookbackDays != 45 {
			t.Errorf("expected lookback 45, got %d", config.Radar.LookbackDays)
		}

		// unset radar fields fall back to defaults
		if config.Radar.BatchSize != 5 {
			t.Errorf("expected default batch size 5, got %d", config.Radar.BatchSize)
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.AccessToken = "access"
		config.Credentials.Spotify.RefreshToken = "refresh"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.AccessToken != "access" {
			t.Errorf("expected access token to survive round trip, got %s", loaded.Credentials.Spotify.AccessToken)
		}
		if loaded.Credentials.Spotify.RefreshToken != "refresh" {
			t.Errorf("expected refresh token to survive round trip, got %s", loaded.Credentials.Spotify.RefreshToken)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Map includes all credentials", func(t *testing.T) {
		config := SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:3000/callback",
			AccessToken:  "access",
		}

		m := config.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" {
			t.Errorf("expected credentials in map, got %v", m)
		}
		if m["access_token"] != "access" {
			t.Errorf("expected access token in map, got %v", m)
		}
	})

	t.Run("Update stores new tokens", func(t *testing.T) {
		config := SpotifyConfig{AccessToken: "old", RefreshToken: "old_refresh"}

		token := config.Token()
		token.AccessToken = "new"

		if err := config.Update(token); err != nil {
			t.Fatalf("failed to update config: %v", err)
		}

		if config.AccessToken != "new" {
			t.Errorf("expected new access token, got %s", config.AccessToken)
		}
		if config.RefreshToken != "old_refresh" {
			t.Errorf("expected refresh token to be kept, got %s", config.RefreshToken)
		}
	})

	t.Run("Update rejects empty token", func(t *testing.T) {
		config := SpotifyConfig{}

		if err := config.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})
}
