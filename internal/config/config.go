// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package config loads the marketplace configuration from layered sources:
// built-in defaults, an optional YAML file and environment variables, in
// rising order of precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Aspeti server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Logging   LoggingConfig   `koanf:"logging"`
	Messaging MessagingConfig `koanf:"messaging"`
	Security  SecurityConfig  `koanf:"security"`
	API       APIConfig       `koanf:"api"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr renders the listen address for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	// Backend is "badger" for on-disk persistence or "memory" for an
	// ephemeral store.
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MessagingConfig tunes the unread-count refresher.
type MessagingConfig struct {
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// SecurityConfig covers CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// APIConfig holds feed query defaults.
type APIConfig struct {
	DefaultRadiusKm int `koanf:"default_radius_km"`
	InviteTTLHours  int `koanf:"invite_ttl_hours"`
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	switch c.Store.Backend {
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the badger backend")
		}
	case "memory":
	default:
		return fmt.Errorf("store.backend must be badger or memory, got %q", c.Store.Backend)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Messaging.RefreshInterval < time.Second {
		return fmt.Errorf("messaging.refresh_interval must be at least 1s, got %s", c.Messaging.RefreshInterval)
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
	}
	if c.API.DefaultRadiusKm < 0 {
		return fmt.Errorf("api.default_radius_km must not be negative, got %d", c.API.DefaultRadiusKm)
	}
	if c.API.InviteTTLHours < 1 || c.API.InviteTTLHours > 8760 {
		return fmt.Errorf("api.invite_ttl_hours must be between 1 and 8760, got %d", c.API.InviteTTLHours)
	}

	return nil
}
