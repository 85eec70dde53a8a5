// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package training

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Samhita-kolluri/homiehub-23/internal/matching"
	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/registry"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// AcceptedMatch is one historical match a user accepted. These pairs are
// the relevance labels for precision@K evaluation.
type AcceptedMatch struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
}

// Evaluation is the held-out ranking-quality result for a candidate model.
type Evaluation struct {
	// PrecisionAtK averages per-user precision: of the top-K rooms the
	// candidate model ranks for a user, the share the user actually
	// accepted, with K truncated to the user's accepted count.
	PrecisionAtK float64

	K     int
	Users int
	Pairs int
}

// corpusSource serves a fixed corpus to the evaluation engine.
type corpusSource struct {
	entries map[profile.Kind][]registry.Entry
}

func (s *corpusSource) Entries(kind profile.Kind) []registry.Entry {
	return s.entries[kind]
}

// Evaluate ranks each user with accepted history through the real engine
// under the candidate scheme and measures precision@K. An empty history
// passes vacuously with zero pairs; the caller decides whether that is
// acceptable for promotion.
func (t *Trainer) Evaluate(ctx context.Context, corpus []*profile.Profile, accepted []AcceptedMatch, result *Result) (*Evaluation, error) {
	k := t.cfg.PrecisionK
	if k <= 0 {
		k = 5
	}
	if len(accepted) == 0 {
		return &Evaluation{PrecisionAtK: 1, K: k}, nil
	}

	source := &corpusSource{entries: make(map[profile.Kind][]registry.Entry)}
	profiles := make(map[string]*profile.Profile, len(corpus))
	for _, p := range corpus {
		vec, err := vectorize.Vectorize(p, result.Scheme)
		if err != nil {
			continue
		}
		source.entries[p.Kind] = append(source.entries[p.Kind], registry.Entry{Profile: p, Vector: vec})
		profiles[p.ID] = p
	}

	engine := matching.NewEngine(
		matching.Config{DefaultK: k, MaxK: k},
		source,
		t.logger,
	)
	engine.Swap(&matching.Snapshot{Model: result.Model, Scheme: result.Scheme})

	acceptedByUser := make(map[string]map[string]bool)
	for _, a := range accepted {
		if acceptedByUser[a.UserID] == nil {
			acceptedByUser[a.UserID] = make(map[string]bool)
		}
		acceptedByUser[a.UserID][a.RoomID] = true
	}

	workers := t.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu           sync.Mutex
		precisionSum float64
		users, pairs int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for userID, rooms := range acceptedByUser {
		user, ok := profiles[userID]
		if !ok || !user.IsUser() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches, err := engine.Rank(matching.Request{Query: user, K: k})
			if err != nil {
				return fmt.Errorf("rank user %s: %w", userID, err)
			}

			hits := 0
			for _, m := range matches {
				if rooms[m.RoomID] {
					hits++
				}
			}
			denominator := k
			if len(rooms) < denominator {
				denominator = len(rooms)
			}

			mu.Lock()
			if denominator > 0 {
				precisionSum += float64(hits) / float64(denominator)
				users++
				pairs += len(rooms)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	eval := &Evaluation{K: k, Users: users, Pairs: pairs}
	if users > 0 {
		eval.PrecisionAtK = precisionSum / float64(users)
	}

	t.logger.Info().
		Str("model_id", result.Model.ID).
		Float64("precision_at_k", eval.PrecisionAtK).
		Int("users", users).
		Int("pairs", pairs).
		Msg("candidate evaluation complete")

	return eval, nil
}

// Passes reports whether the evaluation clears the configured threshold.
func (t *Trainer) Passes(eval *Evaluation) bool {
	return eval.PrecisionAtK >= t.cfg.MinPrecision
}
