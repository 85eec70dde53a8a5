// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package fairness

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Thresholds configure when a measured disparity becomes a violation.
type Thresholds struct {
	// RepresentationLow and RepresentationHigh bound the acceptable
	// representation ratio per group.
	RepresentationLow  float64
	RepresentationHigh float64

	// MaxRankGap is the maximum acceptable average-rank gap.
	MaxRankGap float64

	// MaxParityDifference is the maximum acceptable statistical parity
	// difference.
	MaxParityDifference float64
}

// ErrNoOutcomes is returned when an audit is requested with no sampled data.
var ErrNoOutcomes = errors.New("fairness: no outcomes to audit")

// Auditor computes BiasReports from ranking outcomes.
type Auditor struct {
	thresholds Thresholds
	logger     zerolog.Logger
}

// NewAuditor creates an auditor with the given thresholds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAuditor(thresholds Thresholds, logger zerolog.Logger) *Auditor {
	return &Auditor{
		thresholds: thresholds,
		logger:     logger.With().Str("component", "fairness").Logger(),
	}
}

// GroupFn resolves a candidate ID to its group value for one sensitive
// attribute. The second return is false when the attribute is absent; such
// candidates are excluded from that slice.
type GroupFn func(candidateID string) (string, bool)

// Attribute pairs a sensitive attribute name with its group resolver.
type Attribute struct {
	Name    string
	GroupOf GroupFn
}

// Audit slices the outcomes by each sensitive attribute and produces a
// BiasReport with a pass/fail verdict against the configured thresholds.
// The modelVersion tags which model produced the audited rankings.
func (a *Auditor) Audit(outcomes []Outcome, attributes []Attribute, modelVersion string) (*BiasReport, error) {
	if len(outcomes) == 0 {
		return nil, ErrNoOutcomes
	}

	report := &BiasReport{
		ID:           uuid.NewString(),
		ModelVersion: modelVersion,
		Outcomes:     len(outcomes),
		Passed:       true,
		GeneratedAt:  time.Now().UTC(),
	}

	for _, attr := range attributes {
		slice := a.auditSlice(outcomes, attr)
		if len(slice.Violations) > 0 {
			report.Passed = false
		}
		report.Slices = append(report.Slices, slice)
	}

	a.logger.Debug().
		Str("model_version", modelVersion).
		Int("outcomes", len(outcomes)).
		Bool("passed", report.Passed).
		Msg("fairness audit complete")

	return report, nil
}

// groupAccum accumulates raw counts for one group across all outcomes.
type groupAccum struct {
	pool     int
	selected int
	rankSum  int
}

func (a *Auditor) auditSlice(outcomes []Outcome, attr Attribute) SliceReport {
	accum := make(map[string]*groupAccum)

	for _, outcome := range outcomes {
		for _, cand := range outcome.Candidates {
			group := cand.Group
			if attr.GroupOf != nil {
				var ok bool
				group, ok = attr.GroupOf(cand.ID)
				if !ok {
					continue
				}
			}
			g, ok := accum[group]
			if !ok {
				g = &groupAccum{}
				accum[group] = g
			}
			g.pool++
			if cand.Selected {
				g.selected++
				g.rankSum += cand.Rank
			}
		}
	}

	slice := SliceReport{
		Attribute: attr.Name,
		Groups:    make(map[string]GroupMetrics, len(accum)),
	}

	var totalPool, totalSelected int
	for _, g := range accum {
		totalPool += g.pool
		totalSelected += g.selected
	}
	if totalPool == 0 {
		return slice
	}

	// Deterministic group order for violation reporting.
	groups := make([]string, 0, len(accum))
	for name := range accum {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	var (
		minRate, maxRate       = 1.0, 0.0
		minAvgRank, maxAvgRank float64
		haveRank               bool
	)

	for _, name := range groups {
		g := accum[name]
		m := GroupMetrics{
			PoolCount:     g.pool,
			SelectedCount: g.selected,
			PoolShare:     float64(g.pool) / float64(totalPool),
			SelectionRate: float64(g.selected) / float64(g.pool),
		}
		if totalSelected > 0 {
			m.SelectedShare = float64(g.selected) / float64(totalSelected)
		}
		if m.PoolShare > 0 {
			m.RepresentationRatio = m.SelectedShare / m.PoolShare
		}
		if g.selected > 0 {
			m.AvgRank = float64(g.rankSum) / float64(g.selected)
			if !haveRank || m.AvgRank < minAvgRank {
				minAvgRank = m.AvgRank
			}
			if !haveRank || m.AvgRank > maxAvgRank {
				maxAvgRank = m.AvgRank
			}
			haveRank = true
		}
		if m.SelectionRate < minRate {
			minRate = m.SelectionRate
		}
		if m.SelectionRate > maxRate {
			maxRate = m.SelectionRate
		}
		slice.Groups[name] = m
	}

	if haveRank {
		slice.RankGap = maxAvgRank - minAvgRank
	}
	if maxRate >= minRate {
		slice.ParityDifference = maxRate - minRate
	}

	slice.Violations = a.checkThresholds(slice, groups)
	return slice
}

// checkThresholds compares slice metrics against configured thresholds.
// Representation is only checked for groups with a meaningful pool share;
// a single-member group produces noise, not signal.
func (a *Auditor) checkThresholds(slice SliceReport, groups []string) []Violation {
	var violations []Violation
	t := a.thresholds

	for _, name := range groups {
		m := slice.Groups[name]
		if m.PoolCount < 2 {
			continue
		}
		if t.RepresentationLow > 0 && m.RepresentationRatio < t.RepresentationLow {
			violations = append(violations, Violation{
				Metric:    "representation_ratio",
				Group:     name,
				Observed:  m.RepresentationRatio,
				Threshold: t.RepresentationLow,
			})
		}
		if t.RepresentationHigh > 0 && m.RepresentationRatio > t.RepresentationHigh {
			violations = append(violations, Violation{
				Metric:    "representation_ratio",
				Group:     name,
				Observed:  m.RepresentationRatio,
				Threshold: t.RepresentationHigh,
			})
		}
	}

	if t.MaxRankGap > 0 && slice.RankGap > t.MaxRankGap {
		violations = append(violations, Violation{
			Metric:    "rank_gap",
			Observed:  slice.RankGap,
			Threshold: t.MaxRankGap,
		})
	}
	if t.MaxParityDifference > 0 && slice.ParityDifference > t.MaxParityDifference {
		violations = append(violations, Violation{
			Metric:    "statistical_parity_difference",
			Observed:  slice.ParityDifference,
			Threshold: t.MaxParityDifference,
		})
	}

	return violations
}
