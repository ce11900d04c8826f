// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package bnet

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Mauri-1658/WoWCharacters/internal/config"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
	"github.com/Mauri-1658/WoWCharacters/internal/metrics"
)

// API is the Battle.net surface consumed by the rest of the server.
// *Client and *BreakerClient both satisfy it.
type API interface {
	ProfileSummary(ctx context.Context, token string) (*ProfileSummary, error)
	CharacterProfile(ctx context.Context, token, realm, name string) (*CharacterProfile, error)
	CharacterMedia(ctx context.Context, token, realm, name string) (*Media, error)
	Equipment(ctx context.Context, token, realm, name string) (*Equipment, error)
	Statistics(ctx context.Context, token, realm, name string) (*Statistics, error)
	RaidEncounters(ctx context.Context, token, realm, name string) (*RaidEncounters, error)
	MythicKeystoneProfile(ctx context.Context, token, realm, name string) (*MythicKeystoneProfile, error)
	Specializations(ctx context.Context, token, realm, name string) (*Specializations, error)
	TalentTree(ctx context.Context, token string, treeID, specID int) (*TalentTree, error)
	PlayableSpecialization(ctx context.Context, token string, specID int) (*PlayableSpecialization, error)
	ItemMedia(ctx context.Context, token string, itemID int) (*Media, error)
	GameMedia(ctx context.Context, token, mediaType string, id int) (*Media, error)
	SearchCharacters(ctx context.Context, token, name string) (*SearchResponse, error)
}

// BreakerClient wraps Client with a circuit breaker so a degraded
// Battle.net API cannot cascade into the whole dashboard. Note that a
// character 404 is not a failure for breaker purposes: ErrNotFound
// never feeds the failure counters because the raid and M+ methods
// normalize it before it reaches the breaker.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient creates a Battle.net client with circuit breaker
// protection. The breaker opens after a 60% failure rate over at least
// 10 requests within a 1 minute window and probes recovery with 3
// half-open requests after 2 minutes.
func NewBreakerClient(cfg *config.BattlenetConfig) *BreakerClient {
	client := NewClient(cfg)
	cbName := "battlenet-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A missing character is a valid answer, not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// Inner returns the wrapped client. Test hook for base URL overrides.
func (bc *BreakerClient) Inner() *Client {
	return bc.client
}

// execute runs fn through the circuit breaker and records the outcome.
func (bc *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := bc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(bc.name, "success").Inc()
	return result, nil
}

// castResult type-asserts the breaker result with error checking.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ProfileSummary retrieves the account character list with breaker protection.
func (bc *BreakerClient) ProfileSummary(ctx context.Context, token string) (*ProfileSummary, error) {
	return castResult[ProfileSummary](bc.execute(func() (interface{}, error) {
		return bc.client.ProfileSummary(ctx, token)
	}))
}

// CharacterProfile retrieves a character profile with breaker protection.
func (bc *BreakerClient) CharacterProfile(ctx context.Context, token, realm, name string) (*CharacterProfile, error) {
	return castResult[CharacterProfile](bc.execute(func() (interface{}, error) {
		return bc.client.CharacterProfile(ctx, token, realm, name)
	}))
}

// CharacterMedia retrieves character render assets with breaker protection.
func (bc *BreakerClient) CharacterMedia(ctx context.Context, token, realm, name string) (*Media, error) {
	return castResult[Media](bc.execute(func() (interface{}, error) {
		return bc.client.CharacterMedia(ctx, token, realm, name)
	}))
}

// Equipment retrieves equipped items with breaker protection.
func (bc *BreakerClient) Equipment(ctx context.Context, token, realm, name string) (*Equipment, error) {
	return castResult[Equipment](bc.execute(func() (interface{}, error) {
		return bc.client.Equipment(ctx, token, realm, name)
	}))
}

// Statistics retrieves character statistics with breaker protection.
func (bc *BreakerClient) Statistics(ctx context.Context, token, realm, name string) (*Statistics, error) {
	return castResult[Statistics](bc.execute(func() (interface{}, error) {
		return bc.client.Statistics(ctx, token, realm, name)
	}))
}

// RaidEncounters retrieves raid progress with breaker protection.
func (bc *BreakerClient) RaidEncounters(ctx context.Context, token, realm, name string) (*RaidEncounters, error) {
	return castResult[RaidEncounters](bc.execute(func() (interface{}, error) {
		return bc.client.RaidEncounters(ctx, token, realm, name)
	}))
}

// MythicKeystoneProfile retrieves the M+ profile with breaker protection.
func (bc *BreakerClient) MythicKeystoneProfile(ctx context.Context, token, realm, name string) (*MythicKeystoneProfile, error) {
	return castResult[MythicKeystoneProfile](bc.execute(func() (interface{}, error) {
		return bc.client.MythicKeystoneProfile(ctx, token, realm, name)
	}))
}

// Specializations retrieves talent specializations with breaker protection.
func (bc *BreakerClient) Specializations(ctx context.Context, token, realm, name string) (*Specializations, error) {
	return castResult[Specializations](bc.execute(func() (interface{}, error) {
		return bc.client.Specializations(ctx, token, realm, name)
	}))
}

// TalentTree retrieves the static talent tree with breaker protection.
func (bc *BreakerClient) TalentTree(ctx context.Context, token string, treeID, specID int) (*TalentTree, error) {
	return castResult[TalentTree](bc.execute(func() (interface{}, error) {
		return bc.client.TalentTree(ctx, token, treeID, specID)
	}))
}

// PlayableSpecialization retrieves a static spec with breaker protection.
func (bc *BreakerClient) PlayableSpecialization(ctx context.Context, token string, specID int) (*PlayableSpecialization, error) {
	return castResult[PlayableSpecialization](bc.execute(func() (interface{}, error) {
		return bc.client.PlayableSpecialization(ctx, token, specID)
	}))
}

// ItemMedia retrieves item icon assets with breaker protection.
func (bc *BreakerClient) ItemMedia(ctx context.Context, token string, itemID int) (*Media, error) {
	return castResult[Media](bc.execute(func() (interface{}, error) {
		return bc.client.ItemMedia(ctx, token, itemID)
	}))
}

// GameMedia retrieves game data media with breaker protection.
func (bc *BreakerClient) GameMedia(ctx context.Context, token, mediaType string, id int) (*Media, error) {
	return castResult[Media](bc.execute(func() (interface{}, error) {
		return bc.client.GameMedia(ctx, token, mediaType, id)
	}))
}

// SearchCharacters runs a character search with breaker protection.
func (bc *BreakerClient) SearchCharacters(ctx context.Context, token, name string) (*SearchResponse, error) {
	return castResult[SearchResponse](bc.execute(func() (interface{}, error) {
		return bc.client.SearchCharacters(ctx, token, name)
	}))
}
