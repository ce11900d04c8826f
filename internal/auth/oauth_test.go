// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/Mauri-1658/WoWCharacters/internal/config"
)

func base64JSON(v interface{}) string {
	data, _ := json.Marshal(v)
	return base64.RawURLEncoding.EncodeToString(data)
}

func newTestOAuthClient() *OAuthClient {
	return NewOAuthClient(&config.BattlenetConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://nexus.test/auth/callback",
		Timeout:      5 * time.Second,
	})
}

func TestGenerateState(t *testing.T) {
	t.Parallel()

	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	if a == b {
		t.Error("Expected distinct states")
	}
	if len(a) < 24 {
		t.Errorf("State too short: %q", a)
	}
}

func TestBuildAuthorizationURL(t *testing.T) {
	t.Parallel()

	c := newTestOAuthClient()
	raw := c.BuildAuthorizationURL("state-abc")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Invalid URL: %v", err)
	}
	if u.Host != "oauth.battle.net" || u.Path != "/authorize" {
		t.Errorf("Unexpected endpoint: %s", raw)
	}

	q := u.Query()
	if q.Get("client_id") != "client-id" {
		t.Errorf("Unexpected client_id: %q", q.Get("client_id"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("Unexpected response_type: %q", q.Get("response_type"))
	}
	if q.Get("scope") != "wow.profile" {
		t.Errorf("Unexpected scope: %q", q.Get("scope"))
	}
	if q.Get("state") != "state-abc" {
		t.Errorf("Unexpected state: %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "https://nexus.test/auth/callback" {
		t.Errorf("Unexpected redirect_uri: %q", q.Get("redirect_uri"))
	}
}

func TestExchangeCodeForToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/token" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Errorf("Unexpected grant_type: %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("code") != "auth-code" {
			t.Errorf("Unexpected code: %q", r.PostForm.Get("code"))
		}
		if r.PostForm.Get("client_secret") != "client-secret" {
			t.Errorf("Unexpected client_secret: %q", r.PostForm.Get("client_secret"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-123",
			"token_type":   "bearer",
			"expires_in":   86400,
			"scope":        "wow.profile",
		})
	}))
	defer server.Close()

	c := newTestOAuthClient()
	c.SetAuthBaseURL(server.URL)

	token, err := c.ExchangeCodeForToken(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("ExchangeCodeForToken failed: %v", err)
	}
	if token.AccessToken != "access-123" {
		t.Errorf("Unexpected access token: %q", token.AccessToken)
	}
	if remaining := time.Until(token.ExpiresAt); remaining < 23*time.Hour {
		t.Errorf("Expected ~24h expiry, got %v remaining", remaining)
	}
}

func TestExchangeCodeForToken_Error(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestOAuthClient()
	c.SetAuthBaseURL(server.URL)

	if _, err := c.ExchangeCodeForToken(context.Background(), "bad-code"); err == nil {
		t.Fatal("Expected error for rejected code")
	}
}

func TestFetchUserInfo_Endpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-123" {
			t.Errorf("Unexpected Authorization: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":12345,"battletag":"Arthas#1234"}`))
	}))
	defer server.Close()

	c := newTestOAuthClient()
	c.SetAuthBaseURL(server.URL)

	info, err := c.FetchUserInfo(context.Background(), &OAuthToken{AccessToken: "access-123"})
	if err != nil {
		t.Fatalf("FetchUserInfo failed: %v", err)
	}
	if info.UserID() != "12345" {
		t.Errorf("Unexpected user id: %q", info.UserID())
	}
	if info.BattleTag != "Arthas#1234" {
		t.Errorf("Unexpected battletag: %q", info.BattleTag)
	}
}

func TestParseIDTokenClaims(t *testing.T) {
	t.Parallel()

	// Header/payload crafted by hand; the parser does not verify the
	// signature, only the claim shape matters.
	header := base64JSON(map[string]string{"alg": "RS256", "typ": "JWT"})
	payload := base64JSON(map[string]string{"sub": "12345", "battle_tag": "Arthas#1234"})
	idToken := header + "." + payload + ".sig"

	info, err := parseIDTokenClaims(idToken)
	if err != nil {
		t.Fatalf("parseIDTokenClaims failed: %v", err)
	}
	if info.Sub != "12345" || info.BattleTag != "Arthas#1234" {
		t.Errorf("Unexpected claims: %+v", info)
	}

	// Missing battletag falls through to the userinfo endpoint.
	payload = base64JSON(map[string]string{"sub": "12345"})
	if _, err := parseIDTokenClaims(header + "." + payload + ".sig"); err == nil {
		t.Error("Expected error for incomplete claims")
	}
}
