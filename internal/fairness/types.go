// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package fairness

import "time"

// Candidate is one room in a ranking result set, reduced to what the
// auditor needs: its identity, its sensitive-attribute group and, when it
// was selected into the top-K, its rank position.
type Candidate struct {
	ID    string `json:"id"`
	Group string `json:"group"`

	// Selected marks membership of the returned top-K.
	Selected bool `json:"selected"`

	// Rank is the 1-based rank position; zero when not selected.
	Rank int `json:"rank"`
}

// Outcome is a single ranking request's audited view: every candidate that
// survived the hard filters, with top-K selection marked.
type Outcome struct {
	QueryID    string      `json:"query_id"`
	Candidates []Candidate `json:"candidates"`
}

// GroupMetrics are the per-group measurements inside a report slice.
type GroupMetrics struct {
	// PoolCount and SelectedCount are raw occurrence counts.
	PoolCount     int `json:"pool_count"`
	SelectedCount int `json:"selected_count"`

	// PoolShare and SelectedShare are the group's fraction of the pool and
	// of the selected slots.
	PoolShare     float64 `json:"pool_share"`
	SelectedShare float64 `json:"selected_share"`

	// RepresentationRatio = SelectedShare / PoolShare. 1.0 is perfectly
	// proportional representation.
	RepresentationRatio float64 `json:"representation_ratio"`

	// SelectionRate is the probability of a pool member being selected.
	SelectionRate float64 `json:"selection_rate"`

	// AvgRank is the mean rank position of selected members; zero when the
	// group was never selected.
	AvgRank float64 `json:"avg_rank"`
}

// SliceReport covers one sensitive attribute.
type SliceReport struct {
	Attribute string                  `json:"attribute"`
	Groups    map[string]GroupMetrics `json:"groups"`

	// RankGap is the difference between the largest and smallest group
	// average rank.
	RankGap float64 `json:"rank_gap"`

	// ParityDifference is the statistical parity difference: max selection
	// rate minus min selection rate across groups.
	ParityDifference float64 `json:"parity_difference"`

	// Violations lists threshold breaches in this slice.
	Violations []Violation `json:"violations,omitempty"`
}

// Violation describes one threshold breach.
type Violation struct {
	Metric    string  `json:"metric"`
	Group     string  `json:"group,omitempty"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
}

// BiasReport is the auditor's structured output, tagged with the model
// version that produced the audited rankings.
type BiasReport struct {
	ID           string        `json:"id"`
	ModelVersion string        `json:"model_version"`
	Slices       []SliceReport `json:"slices"`
	Outcomes     int           `json:"outcomes"`
	Passed       bool          `json:"passed"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// FirstViolation returns the first threshold breach in the report, if any.
// It is the specific failing metric named in rollback alerts.
func (r *BiasReport) FirstViolation() (Violation, bool) {
	for _, slice := range r.Slices {
		if len(slice.Violations) > 0 {
			return slice.Violations[0], true
		}
	}
	return Violation{}, false
}
