// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package bnet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mauri-1658/WoWCharacters/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.BattlenetConfig{Region: "eu", Timeout: 5 * time.Second})
	client.SetBaseURL(server.URL)
	return client
}

func TestClient_ProfileSummary(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/user/wow" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token123" {
			t.Errorf("Unexpected Authorization header: %q", got)
		}
		q := r.URL.Query()
		if q.Get("namespace") != "profile-eu" {
			t.Errorf("Expected namespace profile-eu, got %q", q.Get("namespace"))
		}
		if q.Get("locale") != "en_US" {
			t.Errorf("Expected locale en_US, got %q", q.Get("locale"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"wow_accounts":[{"characters":[{"name":"Arthas","level":80,"realm":{"name":"Silvermoon","slug":"silvermoon"}}]}]}`))
	})

	summary, err := client.ProfileSummary(context.Background(), "token123")
	if err != nil {
		t.Fatalf("ProfileSummary failed: %v", err)
	}
	if len(summary.WowAccounts) != 1 || summary.WowAccounts[0].Characters[0].Name != "Arthas" {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

func TestClient_CharacterProfile_NormalizesPath(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/wow/character/twisting-nether/thrall" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"name":"Thrall","level":80}`))
	})

	profile, err := client.CharacterProfile(context.Background(), "t", "Twisting Nether", "Thrall")
	if err != nil {
		t.Fatalf("CharacterProfile failed: %v", err)
	}
	if profile.Name != "Thrall" {
		t.Errorf("Unexpected profile: %+v", profile)
	}
}

func TestClient_CharacterProfile_NotFound(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.CharacterProfile(context.Background(), "t", "nowhere", "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestClient_RaidEncounters_NormalizesMissing(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	raids, err := client.RaidEncounters(context.Background(), "t", "silvermoon", "fresh")
	if err != nil {
		t.Fatalf("Expected missing raids to normalize, got %v", err)
	}
	if raids.Expansions == nil || len(raids.Expansions) != 0 {
		t.Errorf("Expected empty expansions, got %+v", raids)
	}
}

func TestClient_MythicKeystoneProfile_NormalizesMissing(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	mp, err := client.MythicKeystoneProfile(context.Background(), "t", "silvermoon", "fresh")
	if err != nil {
		t.Fatalf("Expected missing M+ profile to normalize, got %v", err)
	}
	if mp.CurrentMythicRating == nil || mp.CurrentMythicRating.Rating != 0 {
		t.Errorf("Expected zero rating, got %+v", mp)
	}
}

func TestClient_ServerError(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ProfileSummary(context.Background(), "t")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestClient_SearchCharacters_Params(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/wow/search/character" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("namespace") != "dynamic-eu" {
			t.Errorf("Expected namespace dynamic-eu, got %q", q.Get("namespace"))
		}
		if q.Get("name.en_US") != "arthas" {
			t.Errorf("Expected name.en_US=arthas, got %q", q.Get("name.en_US"))
		}
		if q.Get("_orderby") != "level:desc" || q.Get("_page") != "1" {
			t.Errorf("Unexpected search ordering params: %v", q)
		}
		w.Write([]byte(`{"results":[{"data":{"name":{"en_US":"Arthas"},"level":80,"realm":{"name":{"en_US":"Silvermoon"},"slug":"silvermoon"}}}]}`))
	})

	resp, err := client.SearchCharacters(context.Background(), "t", "Arthas")
	if err != nil {
		t.Fatalf("SearchCharacters failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Data.Name.Pick() != "Arthas" {
		t.Errorf("Unexpected search response: %+v", resp)
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	if got := retryDelay(0, ""); got != time.Second {
		t.Errorf("Expected 1s base delay, got %v", got)
	}
	if got := retryDelay(3, ""); got != 8*time.Second {
		t.Errorf("Expected 8s delay at attempt 3, got %v", got)
	}
	if got := retryDelay(10, ""); got != 16*time.Second {
		t.Errorf("Expected delay cap at 16s, got %v", got)
	}
	if got := retryDelay(0, "5"); got != 5*time.Second {
		t.Errorf("Expected Retry-After to win, got %v", got)
	}
}

func TestNormalizeRealm(t *testing.T) {
	t.Parallel()

	if got := NormalizeRealm("Twisting Nether"); got != "twisting-nether" {
		t.Errorf("Expected twisting-nether, got %q", got)
	}
	if got := NormalizeName("ARTHAS"); got != "arthas" {
		t.Errorf("Expected arthas, got %q", got)
	}
}
