// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Mauri-1658/WoWCharacters/internal/config"
)

// OAuthClient drives the Battle.net OAuth 2.0 authorization code flow.
//
// Flow:
//  1. Generate a random state and redirect the user to the Battle.net
//     authorization URL with scope wow.profile
//  2. Battle.net redirects back with an authorization code
//  3. Exchange the code for an access token
//  4. Resolve the account identity (battletag) from the id_token claims
//     or the userinfo endpoint
//
// The access token is stored server-side in the session and attached to
// Blizzard profile API calls; it never reaches the browser.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	httpClient   *http.Client

	// Battle.net OAuth endpoints, derived from authBaseURL.
	// Default base: https://oauth.battle.net
	authBaseURL string
}

// OAuthToken is the token response from the Battle.net /oauth/token endpoint.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "bearer"
	ExpiresIn   int    `json:"expires_in"` // lifetime in seconds (typically 86400)
	Scope       string `json:"scope"`
	IDToken     string `json:"id_token,omitempty"` // present when openid scope was granted

	// ExpiresAt is computed locally from ExpiresIn at exchange time.
	ExpiresAt time.Time `json:"-"`
}

// UserInfo is the account identity returned by /oauth/userinfo.
type UserInfo struct {
	ID        json.Number `json:"id"`
	Sub       string      `json:"sub"`
	BattleTag string      `json:"battletag"`
}

// UserID returns the stable account identifier, preferring the numeric id.
func (u *UserInfo) UserID() string {
	if u.ID.String() != "" {
		return u.ID.String()
	}
	return u.Sub
}

const defaultAuthBaseURL = "https://oauth.battle.net"

// NewOAuthClient creates a Battle.net OAuth client from the application config.
func NewOAuthClient(cfg *config.BattlenetConfig) *OAuthClient {
	base := cfg.AuthBaseURL
	if base == "" {
		base = defaultAuthBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &OAuthClient{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		httpClient:   &http.Client{Timeout: timeout},
		authBaseURL:  strings.TrimRight(base, "/"),
	}
}

// GenerateState produces a random URL-safe state parameter for CSRF
// protection. The caller stores it in a short-lived cookie and compares
// it against the state echoed back on the callback.
func GenerateState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BuildAuthorizationURL constructs the Battle.net authorization URL.
//
// Example:
//
//	https://oauth.battle.net/authorize?client_id=abc&redirect_uri=...&
//	  response_type=code&scope=wow.profile&state=random-state
func (c *OAuthClient) BuildAuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.ClientID)
	params.Set("redirect_uri", c.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "wow.profile")
	params.Set("state", state)

	return c.authBaseURL + "/authorize?" + params.Encode()
}

// ExchangeCodeForToken exchanges an authorization code for an access token.
//
// Battle.net expects a form-encoded POST with the client credentials in
// the body. ExpiresAt is computed from expires_in before returning.
func (c *OAuthClient) ExchangeCodeForToken(ctx context.Context, code string) (*OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.RedirectURI)
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBaseURL+"/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token OAuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	return &token, nil
}

// FetchUserInfo resolves the account identity for an access token.
//
// When the token response carried an id_token, its claims already contain
// the battletag and account id, saving the userinfo round trip. The
// id_token arrives directly over TLS from the token endpoint, so the
// claims are read without signature verification. Falls back to GET
// /oauth/userinfo otherwise.
func (c *OAuthClient) FetchUserInfo(ctx context.Context, token *OAuthToken) (*UserInfo, error) {
	if token.IDToken != "" {
		if info, err := parseIDTokenClaims(token.IDToken); err == nil {
			return info, nil
		}
		// Malformed id_token: fall through to the userinfo endpoint.
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authBaseURL+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo response: %w", err)
	}

	if info.UserID() == "" {
		return nil, fmt.Errorf("userinfo response missing account id")
	}

	return &info, nil
}

// parseIDTokenClaims extracts the account identity from a Battle.net
// id_token without verifying the signature.
func parseIDTokenClaims(idToken string) (*UserInfo, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse id_token: %w", err)
	}

	info := &UserInfo{}
	if sub, ok := claims["sub"].(string); ok {
		info.Sub = sub
	}
	if tag, ok := claims["battle_tag"].(string); ok {
		info.BattleTag = tag
	}
	if info.BattleTag == "" {
		if tag, ok := claims["battletag"].(string); ok {
			info.BattleTag = tag
		}
	}

	if info.Sub == "" || info.BattleTag == "" {
		return nil, fmt.Errorf("id_token missing identity claims")
	}

	return info, nil
}

// SetAuthBaseURL overrides the OAuth base URL.
// This is primarily used for testing with mock servers.
func (c *OAuthClient) SetAuthBaseURL(u string) {
	c.authBaseURL = strings.TrimRight(u, "/")
}
