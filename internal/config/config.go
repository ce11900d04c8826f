// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package config defines the Nexus configuration model and its layered
// loading (defaults, optional YAML file, environment overrides).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Nexus server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Battlenet BattlenetConfig `koanf:"battlenet"`
	Session   SessionConfig   `koanf:"session"`
	Security  SecurityConfig  `koanf:"security"`
	Prefs     PrefsConfig     `koanf:"prefs"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
	// Environment toggles production-only checks (secure cookies, secrets).
	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// BattlenetConfig holds Battle.net OAuth and API settings.
type BattlenetConfig struct {
	Region       string `koanf:"region" validate:"oneof=us eu kr tw"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURI  string `koanf:"redirect_uri"`
	// AuthBaseURL and APIBaseURL are overridable for tests; empty means the
	// region-derived production endpoints.
	AuthBaseURL string        `koanf:"auth_base_url"`
	APIBaseURL  string        `koanf:"api_base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	// RequestsPerSecond paces outbound API calls. 0 disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// FriendWorkers bounds concurrent friend profile resolution.
	FriendWorkers int `koanf:"friend_workers" validate:"min=1,max=32"`
}

// SessionConfig holds session cookie and store settings.
type SessionConfig struct {
	// Store selects the backend: memory or badger.
	Store      string        `koanf:"store" validate:"oneof=memory badger"`
	StorePath  string        `koanf:"store_path"`
	CookieName string        `koanf:"cookie_name"`
	TTL        time.Duration `koanf:"ttl"`
	// Sliding refreshes the expiry on each authenticated request.
	Sliding      bool `koanf:"sliding"`
	CookieSecure bool `koanf:"cookie_secure"`
}

// SecurityConfig holds request-level protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// PrefsConfig holds the preference store settings.
type PrefsConfig struct {
	// Store selects the backend: memory or badger.
	Store     string `koanf:"store" validate:"oneof=memory badger"`
	StorePath string `koanf:"store_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

var validate = validator.New()

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Battlenet.ClientID == "" || c.Battlenet.ClientSecret == "" {
		return fmt.Errorf("battlenet client_id and client_secret are required")
	}
	if c.Battlenet.RedirectURI == "" {
		return fmt.Errorf("battlenet redirect_uri is required")
	}
	if c.Session.Store == "badger" && c.Session.StorePath == "" {
		return fmt.Errorf("session store_path is required for the badger store")
	}
	if c.Prefs.Store == "badger" && c.Prefs.StorePath == "" {
		return fmt.Errorf("prefs store_path is required for the badger store")
	}
	if c.Server.Environment == "production" && !c.Session.CookieSecure {
		return fmt.Errorf("session cookie_secure must be enabled in production")
	}
	return nil
}
