// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package config

import (
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Battlenet.ClientID = "client"
	cfg.Battlenet.ClientSecret = "secret"
	cfg.Battlenet.RedirectURI = "http://localhost:3000/auth/callback"
	return cfg
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "eu", cfg.Battlenet.Region)
	assert.Equal(t, 4, cfg.Battlenet.FriendWorkers)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.True(t, cfg.Session.Sliding)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.Battlenet.ClientSecret = "" },
			wantErr: "client_id and client_secret",
		},
		{
			name:    "missing redirect URI",
			mutate:  func(c *Config) { c.Battlenet.RedirectURI = "" },
			wantErr: "redirect_uri",
		},
		{
			name:    "unknown region",
			mutate:  func(c *Config) { c.Battlenet.Region = "xx" },
			wantErr: "invalid configuration",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid configuration",
		},
		{
			name: "badger session store without path",
			mutate: func(c *Config) {
				c.Session.Store = "badger"
				c.Session.StorePath = ""
			},
			wantErr: "store_path",
		},
		{
			name: "insecure cookie in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Session.CookieSecure = false
			},
			wantErr: "cookie_secure",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"BNET_CLIENT_ID":     "battlenet.client_id",
		"HTTP_PORT":          "server.port",
		"SESSION_TTL":        "session.ttl",
		"DISABLE_RATE_LIMIT": "security.rate_limit_disabled",
		"LOG_LEVEL":          "logging.level",
		"PATH":               "",
		"HOME":               "",
	}
	for env, want := range tests {
		assert.Equal(t, want, envTransformFunc(env), env)
	}
}

func TestProcessSliceFields(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	require.NoError(t, k.Set("security.cors_origins", "http://localhost:5173, https://nexus.example.com"))
	require.NoError(t, processSliceFields(k))

	origins := k.Strings("security.cors_origins")
	require.Len(t, origins, 2)
	assert.Equal(t, "https://nexus.example.com", origins[1])
}
