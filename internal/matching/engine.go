// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package matching

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/metrics"
	"github.com/Samhita-kolluri/homiehub-23/internal/modelstore"
	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/registry"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// SortMode selects the result ordering.
type SortMode string

const (
	// SortSimilarity orders by similarity score, the default.
	SortSimilarity SortMode = "similarity"

	// SortRecency orders by candidate update time, newest first. Scores
	// are still computed and attached.
	SortRecency SortMode = "recency"
)

// ParseSortMode validates a sort mode string, defaulting empty to
// similarity.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortSimilarity:
		return SortSimilarity, nil
	case SortRecency:
		return SortRecency, nil
	default:
		return "", &InvalidFilterError{Field: "sort", Value: s}
	}
}

// Match is one ranked result. Matches live for the duration of a response;
// they are not persisted except when sampled for fairness auditing.
type Match struct {
	UserID string  `json:"user_id"`
	RoomID string  `json:"room_id"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
}

// Snapshot is the immutable production state a ranking request reads: the
// model record and the scheme carrying its weights. Built once at promotion
// and never mutated.
type Snapshot struct {
	Model  *modelstore.ModelVersion
	Scheme *vectorize.Scheme
}

// CandidateSource supplies the candidate pool. Implemented by the profile
// registry.
type CandidateSource interface {
	Entries(kind profile.Kind) []registry.Entry
}

// Config bounds ranking requests.
type Config struct {
	// DefaultK is the result size when the request does not set one.
	DefaultK int

	// MaxK caps the requested result size.
	MaxK int

	// CandidatePoolCap bounds the pool scored per request. When the
	// filtered pool exceeds it, the most recently updated candidates are
	// kept.
	CandidatePoolCap int
}

// Request is one ranking query.
type Request struct {
	Query   *profile.Profile
	Filters Filters
	K       int
	Sort    SortMode
}

// Engine ranks candidates against the production snapshot.
type Engine struct {
	cfg      Config
	source   CandidateSource
	snapshot atomic.Pointer[Snapshot]
	logger   zerolog.Logger
}

// NewEngine creates an engine with no production snapshot loaded. Rankings
// fail with ErrModelUnavailable until the first Swap.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, source CandidateSource, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		source: source,
		logger: logger.With().Str("component", "matching").Logger(),
	}
}

// Swap atomically replaces the production snapshot. In-flight rankings
// complete against the snapshot they already loaded.
func (e *Engine) Swap(s *Snapshot) {
	e.snapshot.Store(s)
}

// Snapshot returns the current production snapshot, or nil before the first
// promotion.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// scored pairs a candidate with its similarity score during ranking.
type scored struct {
	entry registry.Entry
	score float64
}

// Rank produces the ordered match list for a request. The result is
// recomputed per call; identical inputs against the same snapshot produce
// identical orderings.
func (e *Engine) Rank(req Request) ([]Match, error) {
	start := time.Now()
	defer func() {
		metrics.MatchRequestDuration.Observe(time.Since(start).Seconds())
	}()

	snap := e.snapshot.Load()
	if snap == nil || snap.Model == nil {
		metrics.MatchRequestsTotal.WithLabelValues("model_unavailable").Inc()
		return nil, ErrModelUnavailable
	}

	sortMode, err := ParseSortMode(string(req.Sort))
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid_filter").Inc()
		return nil, err
	}
	if err := req.Filters.Validate(snap.Scheme); err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("invalid_filter").Inc()
		return nil, err
	}

	k := req.K
	if k <= 0 {
		k = e.cfg.DefaultK
	}
	if e.cfg.MaxK > 0 && k > e.cfg.MaxK {
		k = e.cfg.MaxK
	}

	queryVec, err := vectorize.Vectorize(req.Query, snap.Scheme)
	if err != nil {
		metrics.MatchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("vectorize query %s: %w", req.Query.ID, err)
	}

	pool := e.filteredPool(req.Query, &req.Filters, queryVec.SchemeVersion)
	metrics.MatchCandidatesFiltered.Observe(float64(len(pool)))

	if len(pool) == 0 {
		// Empty after filtering is a valid outcome, distinct from
		// ModelUnavailable. Hard constraints are never relaxed to fill
		// results.
		metrics.MatchRequestsTotal.WithLabelValues("empty").Inc()
		return []Match{}, nil
	}

	candidates := make([]scored, 0, len(pool))
	for _, entry := range pool {
		candidates = append(candidates, scored{
			entry: entry,
			score: cosineScore(queryVec.Values, entry.Vector.Values),
		})
	}

	switch sortMode {
	case SortRecency:
		sort.Slice(candidates, func(i, j int) bool {
			return lessByRecency(candidates[i].entry, candidates[j].entry)
		})
	default:
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			return lessByRecency(candidates[i].entry, candidates[j].entry)
		})
	}

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = e.match(req.Query, c, i+1)
	}

	metrics.MatchRequestsTotal.WithLabelValues("ok").Inc()
	e.logger.Debug().
		Str("query_id", req.Query.ID).
		Int("pool", len(pool)).
		Int("returned", len(matches)).
		Str("model_id", snap.Model.ID).
		Msg("ranking complete")

	return matches, nil
}

// filteredPool applies hard filters, drops vectors from other scheme
// versions, and caps the pool by update recency.
func (e *Engine) filteredPool(query *profile.Profile, f *Filters, schemeVersion string) []registry.Entry {
	targetKind := profile.KindRoom
	if query.Kind == profile.KindRoom {
		targetKind = profile.KindUser
	}

	var pool []registry.Entry
	for _, entry := range e.source.Entries(targetKind) {
		if entry.Profile.ID == query.ID {
			continue
		}
		if entry.Vector.SchemeVersion != schemeVersion {
			// Stale vector awaiting revectorization; cross-scheme
			// comparison is never meaningful.
			e.logger.Debug().
				Str("profile_id", entry.Profile.ID).
				Str("vector_scheme", entry.Vector.SchemeVersion).
				Msg("skipping candidate with stale vector")
			continue
		}
		if f.Admit(entry.Profile) {
			pool = append(pool, entry)
		}
	}

	if e.cfg.CandidatePoolCap > 0 && len(pool) > e.cfg.CandidatePoolCap {
		sort.Slice(pool, func(i, j int) bool { return lessByRecency(pool[i], pool[j]) })
		pool = pool[:e.cfg.CandidatePoolCap]
	}
	return pool
}

func (e *Engine) match(query *profile.Profile, c scored, rank int) Match {
	m := Match{Score: c.score, Rank: rank}
	if query.Kind == profile.KindUser {
		m.UserID = query.ID
		m.RoomID = c.entry.Profile.ID
	} else {
		m.UserID = c.entry.Profile.ID
		m.RoomID = query.ID
	}
	return m
}

// lessByRecency orders entries newest-first, breaking exact-timestamp ties
// by profile ID so identical inputs always rank identically.
func lessByRecency(a, b registry.Entry) bool {
	if !a.Profile.UpdatedAt.Equal(b.Profile.UpdatedAt) {
		return a.Profile.UpdatedAt.After(b.Profile.UpdatedAt)
	}
	return a.Profile.ID < b.Profile.ID
}

// cosineScore is cosine similarity clamped to [0,1]. Feature values are
// non-negative so the raw cosine already lands there; the clamp guards
// float rounding at the edges.
func cosineScore(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
