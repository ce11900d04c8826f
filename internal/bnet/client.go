// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package bnet implements the Battle.net API client used by Nexus. All
// requests carry the per-session bearer token, a region-scoped namespace
// and locale=en_US. The client paces outbound requests, retries 429s with
// exponential backoff and normalizes the two well-known 404s (raids and
// mythic keystone) into empty documents.
package bnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/Mauri-1658/WoWCharacters/internal/config"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
	"github.com/Mauri-1658/WoWCharacters/internal/metrics"
)

const (
	// maxErrorBodySize bounds how much of an error response body is read.
	maxErrorBodySize = 64 * 1024

	// maxRetries bounds 429 retry attempts per request.
	maxRetries = 5

	// baseRetryDelay is the first 429 backoff step; doubles up to maxRetryDelay.
	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 16 * time.Second
)

// ErrNotFound is returned when the upstream responds 404.
var ErrNotFound = errors.New("bnet: not found")

// APIError carries a non-2xx upstream response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bnet: upstream returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Battle.net game data and profile APIs.
type Client struct {
	baseURL string
	region  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Battle.net API client from configuration.
func NewClient(cfg *config.BattlenetConfig) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.blizzard.com", cfg.Region)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		region:  cfg.Region,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// SetBaseURL overrides the API base URL. Test hook.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// NormalizeRealm lowercases a realm and converts spaces to hyphens so
// display names and slugs address the same character.
func NormalizeRealm(realm string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(realm)), " ", "-")
}

// NormalizeName lowercases a character name for profile URLs.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Client) namespace(kind string) string {
	return kind + "-" + c.region
}

// get performs a GET against the API with retry-aware 429 handling and
// decodes the JSON response into result.
func (c *Client) get(ctx context.Context, endpoint, token, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("locale", "en_US")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("request %s: %w", endpoint, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			metrics.UpstreamRateLimited.Inc()
			delay := retryDelay(attempt, resp.Header.Get("Retry-After"))
			drainAndClose(resp.Body)
			logging.Warn().
				Str("endpoint", endpoint).
				Dur("delay", delay).
				Int("attempt", attempt+1).
				Msg("Battle.net rate limit hit, backing off")
			lastErr = &APIError{StatusCode: resp.StatusCode}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			drainAndClose(resp.Body)
			metrics.UpstreamRequests.WithLabelValues(endpoint, "not_found").Inc()
			return ErrNotFound
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body := readBodyForError(resp.Body)
			resp.Body.Close()
			metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
			return &APIError{StatusCode: resp.StatusCode, Body: body}
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues(endpoint, "decode_error").Inc()
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
		return nil
	}
	return fmt.Errorf("request %s: retries exhausted: %w", endpoint, lastErr)
}

// retryDelay derives the backoff delay for a 429, honoring Retry-After
// when present.
func retryDelay(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	delay := baseRetryDelay << attempt
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// readBodyForError reads a bounded prefix of an error response body.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return fmt.Sprintf("(failed to read body: %v)", err)
	}
	return strings.TrimSpace(string(body))
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBodySize))
	body.Close()
}

func characterPath(realm, name, suffix string) string {
	return "/profile/wow/character/" + url.PathEscape(NormalizeRealm(realm)) + "/" + url.PathEscape(NormalizeName(name)) + suffix
}

func (c *Client) profileParams() url.Values {
	return url.Values{"namespace": {c.namespace("profile")}}
}

func (c *Client) staticParams() url.Values {
	return url.Values{"namespace": {c.namespace("static")}}
}

// ProfileSummary retrieves the account-wide character list.
func (c *Client) ProfileSummary(ctx context.Context, token string) (*ProfileSummary, error) {
	var out ProfileSummary
	if err := c.get(ctx, "profile_summary", token, "/profile/user/wow", c.profileParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CharacterProfile retrieves a single character's profile.
func (c *Client) CharacterProfile(ctx context.Context, token, realm, name string) (*CharacterProfile, error) {
	var out CharacterProfile
	if err := c.get(ctx, "character_profile", token, characterPath(realm, name, ""), c.profileParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CharacterMedia retrieves the character's render assets.
func (c *Client) CharacterMedia(ctx context.Context, token, realm, name string) (*Media, error) {
	var out Media
	if err := c.get(ctx, "character_media", token, characterPath(realm, name, "/character-media"), c.profileParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Equipment retrieves the character's equipped items.
func (c *Client) Equipment(ctx context.Context, token, realm, name string) (*Equipment, error) {
	var out Equipment
	if err := c.get(ctx, "equipment", token, characterPath(realm, name, "/equipment"), c.profileParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics retrieves the character's attribute and rating statistics.
func (c *Client) Statistics(ctx context.Context, token, realm, name string) (*Statistics, error) {
	var out Statistics
	if err := c.get(ctx, "statistics", token, characterPath(realm, name, "/statistics"), c.profileParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RaidEncounters retrieves the character's raid encounter summary.
// Characters with no raid history 404 upstream; that maps to an empty
// expansion list here.
func (c *Client) RaidEncounters(ctx context.Context, token, realm, name string) (*RaidEncounters, error) {
	var out RaidEncounters
	err := c.get(ctx, "raids", token, characterPath(realm, name, "/encounters/raids"), c.profileParams(), &out)
	if errors.Is(err, ErrNotFound) {
		return &RaidEncounters{Expansions: []RaidExpansion{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MythicKeystoneProfile retrieves the character's Mythic+ profile.
// Characters with no M+ history 404 upstream; that maps to a zero rating.
func (c *Client) MythicKeystoneProfile(ctx context.Context, token, realm, name string) (*MythicKeystoneProfile, error) {
	var out MythicKeystoneProfile
	err := c.get(ctx, "mythic_keystone", token, characterPath(realm, name, "/mythic-keystone-profile"), c.profileParams(), &out)
	if errors.Is(err, ErrNotFound) {
		return &MythicKeystoneProfile{CurrentMythicRating: &MythicRating{Rating: 0}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Specializations retrieves the character's talent specializations.
func (c *Client) Specializations(ctx context.Context, token, realm, name string) (*Specializations, error) {
	var out Specializations
	if err := c.get(ctx, "specializations", token, characterPath(realm, name, "/specializations"), c.profileParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TalentTree retrieves the static talent tree layout for a specialization.
func (c *Client) TalentTree(ctx context.Context, token string, treeID, specID int) (*TalentTree, error) {
	var out TalentTree
	path := fmt.Sprintf("/data/wow/talent-tree/%d/playable-specialization/%d", treeID, specID)
	if err := c.get(ctx, "talent_tree", token, path, c.staticParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlayableSpecialization retrieves the static specialization document.
// Used as the tree-id fallback when the profile omits it.
func (c *Client) PlayableSpecialization(ctx context.Context, token string, specID int) (*PlayableSpecialization, error) {
	var out PlayableSpecialization
	path := fmt.Sprintf("/data/wow/playable-specialization/%d", specID)
	if err := c.get(ctx, "playable_specialization", token, path, c.staticParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ItemMedia retrieves the icon assets for an item.
func (c *Client) ItemMedia(ctx context.Context, token string, itemID int) (*Media, error) {
	var out Media
	path := fmt.Sprintf("/data/wow/media/item/%d", itemID)
	if err := c.get(ctx, "item_media", token, path, c.staticParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GameMedia retrieves media assets for arbitrary game data documents
// (playable-race, playable-class, playable-specialization, talent).
func (c *Client) GameMedia(ctx context.Context, token, mediaType string, id int) (*Media, error) {
	var out Media
	path := fmt.Sprintf("/data/wow/media/%s/%d", url.PathEscape(mediaType), id)
	if err := c.get(ctx, "game_media", token, path, c.staticParams(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchCharacters runs a region-wide character search by exact name,
// highest level first.
func (c *Client) SearchCharacters(ctx context.Context, token, name string) (*SearchResponse, error) {
	params := url.Values{
		"namespace":  {c.namespace("dynamic")},
		"name.en_US": {NormalizeName(name)},
		"_orderby":   {"level:desc"},
		"_page":      {"1"},
	}
	var out SearchResponse
	if err := c.get(ctx, "character_search", token, "/data/wow/search/character", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
