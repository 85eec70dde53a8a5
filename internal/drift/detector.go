// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package drift

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// psiEpsilon smooths empty bins so the PSI log term stays finite. Identical
// distributions still score exactly zero because both proportions receive
// the same smoothing.
const psiEpsilon = 1e-6

// Config configures the detector.
type Config struct {
	// Bins is the number of quantile bins per feature.
	Bins int

	// Threshold is the aggregate PSI at or above which drift is reported.
	Threshold float64

	// MinSamples is the minimum current-window size; smaller windows
	// return ErrWindowTooSmall rather than a noisy verdict.
	MinSamples int
}

// FeatureScore is one feature's drift measurement.
type FeatureScore struct {
	Feature string  `json:"feature"`
	PSI     float64 `json:"psi"`
}

// Report is the detector's output for one comparison window.
type Report struct {
	ID            string         `json:"id"`
	SchemeVersion string         `json:"scheme_version"`
	Features      []FeatureScore `json:"features"`

	// Aggregate is the maximum per-feature PSI.
	Aggregate float64 `json:"aggregate"`

	// TopFeature is the feature carrying the aggregate score.
	TopFeature string `json:"top_feature"`

	Threshold     float64   `json:"threshold"`
	DriftDetected bool      `json:"drift_detected"`
	CurrentCount  int       `json:"current_count"`
	BaselineCount int       `json:"baseline_count"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Detector computes drift reports. It holds no baseline state itself; the
// caller owns the baseline and passes it per call, which keeps the baseline
// swap at promotion a plain pointer replacement upstream.
type Detector struct {
	cfg    Config
	logger zerolog.Logger
}

var (
	// ErrEmptyBaseline is returned for a missing or empty baseline.
	ErrEmptyBaseline = errors.New("drift: empty baseline")

	// ErrWindowTooSmall is returned when the current window has fewer
	// samples than configured.
	ErrWindowTooSmall = errors.New("drift: current window below minimum sample count")
)

// NewDetector creates a detector.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDetector(cfg Config, logger zerolog.Logger) *Detector {
	if cfg.Bins < 2 {
		cfg.Bins = 10
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.2
	}
	return &Detector{
		cfg:    cfg,
		logger: logger.With().Str("component", "drift").Logger(),
	}
}

// Detect compares the current window against the baseline. Both windows
// must carry vectors from the same scheme version; mixing versions is a
// hard error, never a silent comparison.
func (d *Detector) Detect(current, baseline []vectorize.FeatureVector) (*Report, error) {
	if len(baseline) == 0 {
		return nil, ErrEmptyBaseline
	}
	if len(current) < d.cfg.MinSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrWindowTooSmall, len(current), d.cfg.MinSamples)
	}

	version := baseline[0].SchemeVersion
	for _, v := range baseline {
		if v.SchemeVersion != version {
			return nil, vectorize.ErrSchemeMismatch
		}
	}
	for _, v := range current {
		if v.SchemeVersion != version {
			return nil, vectorize.ErrSchemeMismatch
		}
	}

	report := &Report{
		ID:            uuid.NewString(),
		SchemeVersion: version,
		Threshold:     d.cfg.Threshold,
		CurrentCount:  len(current),
		BaselineCount: len(baseline),
		GeneratedAt:   time.Now().UTC(),
	}

	for i := 0; i < vectorize.Dim; i++ {
		baseVals := featureColumn(baseline, i)
		curVals := featureColumn(current, i)
		psi := populationStabilityIndex(curVals, baseVals, d.cfg.Bins)

		score := FeatureScore{Feature: vectorize.FeatureName(i), PSI: psi}
		report.Features = append(report.Features, score)

		if psi > report.Aggregate || report.TopFeature == "" {
			report.Aggregate = psi
			report.TopFeature = score.Feature
		}
	}

	report.DriftDetected = report.Aggregate >= d.cfg.Threshold

	d.logger.Debug().
		Float64("aggregate_psi", report.Aggregate).
		Str("top_feature", report.TopFeature).
		Bool("drift_detected", report.DriftDetected).
		Msg("drift check complete")

	return report, nil
}

// featureColumn extracts one feature across a vector window.
func featureColumn(vectors []vectorize.FeatureVector, feature int) []float64 {
	out := make([]float64, 0, len(vectors))
	for _, v := range vectors {
		if feature < len(v.Values) {
			out = append(out, v.Values[feature])
		}
	}
	return out
}

// populationStabilityIndex computes PSI between current and baseline
// samples over quantile bins derived from the baseline:
//
//	PSI = sum_b (cur_b - base_b) * ln(cur_b / base_b)
//
// where cur_b and base_b are smoothed bin proportions. Identical inputs
// yield exactly zero because every bin's proportions match.
func populationStabilityIndex(current, baseline []float64, bins int) float64 {
	if len(current) == 0 || len(baseline) == 0 {
		return 0
	}

	edges := quantileEdges(baseline, bins)
	if len(edges) == 0 {
		// Constant baseline feature: any deviation in the current window
		// lands outside the single point mass and counts fully.
		return constantFeaturePSI(current, baseline[0])
	}

	baseCounts := binCounts(baseline, edges)
	curCounts := binCounts(current, edges)

	var psi float64
	for b := range baseCounts {
		pBase := smoothedShare(baseCounts[b], len(baseline), len(baseCounts))
		pCur := smoothedShare(curCounts[b], len(current), len(curCounts))
		psi += (pCur - pBase) * math.Log(pCur/pBase)
	}
	return psi
}

// smoothedShare converts a count to a proportion with epsilon smoothing so
// identical distributions cancel exactly and empty bins stay finite.
func smoothedShare(count, total, bins int) float64 {
	return (float64(count) + psiEpsilon) / (float64(total) + float64(bins)*psiEpsilon)
}

// quantileEdges returns interior bin edges at baseline quantiles. Duplicate
// edges (heavily-tied data) are collapsed; an empty result means the
// baseline is constant.
func quantileEdges(values []float64, bins int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if sorted[0] == sorted[len(sorted)-1] {
		return nil
	}

	edges := make([]float64, 0, bins-1)
	for b := 1; b < bins; b++ {
		idx := (len(sorted) - 1) * b / bins
		edge := sorted[idx]
		if len(edges) == 0 || edge > edges[len(edges)-1] {
			edges = append(edges, edge)
		}
	}
	return edges
}

// binCounts assigns values to bins bounded by the interior edges. Bin b
// covers (edges[b-1], edges[b]]; boundary values fall into the lower bin.
func binCounts(values []float64, edges []float64) []int {
	counts := make([]int, len(edges)+1)
	for _, v := range values {
		counts[sort.SearchFloat64s(edges, v)]++
	}
	return counts
}

// constantFeaturePSI handles a baseline with zero variance: the share of
// current values that moved away from the constant is converted to a PSI
// analogue on a two-bin (at/away) split.
func constantFeaturePSI(current []float64, baselineValue float64) float64 {
	var moved int
	for _, v := range current {
		if math.Abs(v-baselineValue) > 1e-12 {
			moved++
		}
	}
	if moved == 0 {
		return 0
	}
	pBaseAt := smoothedShare(1, 1, 2)
	pBaseAway := smoothedShare(0, 1, 2)
	pCurAt := smoothedShare(len(current)-moved, len(current), 2)
	pCurAway := smoothedShare(moved, len(current), 2)

	return (pCurAt-pBaseAt)*math.Log(pCurAt/pBaseAt) +
		(pCurAway-pBaseAway)*math.Log(pCurAway/pBaseAway)
}
