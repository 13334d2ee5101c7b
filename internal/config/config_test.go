// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"sub.domain.localhost", true},
		{"example.com", false},
		{"www.example.com", false},
		{"192.168.1.1", false},
		{"localhost.com", false}, // not a real localhost
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "default port hidden",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 80}},
			expected: "http://localhost",
		},
		{
			name:     "custom port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 8080}},
			expected: "http://localhost:8080",
		},
		{
			name:     "remote host",
			cfg:      &Config{Server: ServerConfig{Host: "shop.example.com", Port: 9000}},
			expected: "http://shop.example.com:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestApplyCatalogDefaults(t *testing.T) {
	t.Run("media served from base url", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{BaseURL: "http://localhost:8080"}}
		applyCatalogDefaults(cfg)

		assert.Equal(t, "http://localhost:8080/media", cfg.Catalog.MediaBaseURL)
		assert.Equal(t, "USD", cfg.Catalog.Currency)
	})

	t.Run("explicit media url keeps value without trailing slash", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{BaseURL: "http://localhost:8080"},
			Catalog: CatalogConfig{MediaBaseURL: "https://cdn.example.com/", Currency: "EUR"},
		}
		applyCatalogDefaults(cfg)

		assert.Equal(t, "https://cdn.example.com", cfg.Catalog.MediaBaseURL)
		assert.Equal(t, "EUR", cfg.Catalog.Currency)
	})
}

func TestIsSecure(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{BaseURL: "https://shop.example.com"}}).IsSecure())
	assert.False(t, (&Config{Server: ServerConfig{BaseURL: "http://localhost:8080"}}).IsSecure())
}

func TestFlags(t *testing.T) {
	flags := Flags()

	// Should have all expected flags
	assert.NotEmpty(t, flags)

	// Check for key flags
	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["base-url"], "should have base-url flag")
	assert.True(t, flagNames["log-level"], "should have log-level flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["session-cookie-name"], "should have session-cookie-name flag")
	assert.True(t, flagNames["media-base-url"], "should have media-base-url flag")
	assert.True(t, flagNames["wishlist-counter-use-qty"], "should have wishlist-counter-use-qty flag")
	assert.True(t, flagNames["smtp-host"], "should have smtp-host flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			// Verify defaults are applied
			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "_session", cfg.Session.CookieName)
			assert.Equal(t, 604800, cfg.Session.MaxAge) // 7 days in seconds
			assert.False(t, cfg.Wishlist.CounterUseQty)
			assert.Equal(t, 10, cfg.Wishlist.ShareLimit)
			assert.Empty(t, cfg.SMTP.Host)

			// BaseURL and media URL should be auto-generated
			assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
			assert.Equal(t, "http://localhost:8080/media", cfg.Catalog.MediaBaseURL)

			return nil
		},
	}

	// Run the command with default flags
	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			// Verify custom values
			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://example.com", cfg.Server.BaseURL)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.True(t, cfg.Wishlist.CounterUseQty)
			assert.Equal(t, "EUR", cfg.Catalog.Currency)

			return nil
		},
	}

	// Run with custom args
	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://example.com/",
		"--log-level", "debug",
		"--database-dsn", "./data/test.db",
		"--wishlist-counter-use-qty",
		"--currency", "EUR",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
