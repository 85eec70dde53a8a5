// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package drift

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

func testDetector(t *testing.T, cfg Config) *Detector {
	t.Helper()
	return NewDetector(cfg, zerolog.Nop())
}

// syntheticWindow builds a vector window where every feature follows a
// simple spread and the budget feature sits at base plus a small jitter.
func syntheticWindow(n int, budget float64) []vectorize.FeatureVector {
	window := make([]vectorize.FeatureVector, n)
	for i := 0; i < n; i++ {
		values := make([]float64, vectorize.Dim)
		for f := 0; f < vectorize.Dim; f++ {
			values[f] = float64(i%10) / 10.0
		}
		values[vectorize.FeatBudget] = budget + float64(i%5)*0.01
		window[i] = vectorize.FeatureVector{
			ProfileID:     fmt.Sprintf("p-%03d", i),
			SchemeVersion: "scheme-v1",
			Values:        values,
		}
	}
	return window
}

func TestDetectSelfBaselineScoresZero(t *testing.T) {
	d := testDetector(t, Config{Bins: 10, Threshold: 0.2, MinSamples: 20})
	window := syntheticWindow(60, 0.3)

	report, err := d.Detect(window, window)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if report.Aggregate != 0 {
		t.Errorf("aggregate PSI = %v, want exactly 0 for identical windows", report.Aggregate)
	}
	if report.DriftDetected {
		t.Error("drift detected against identical baseline")
	}
	if len(report.Features) != vectorize.Dim {
		t.Errorf("feature scores = %d, want %d", len(report.Features), vectorize.Dim)
	}
	if report.ID == "" {
		t.Error("report missing id")
	}
}

func TestDetectBudgetShift(t *testing.T) {
	d := testDetector(t, Config{Bins: 10, Threshold: 0.2, MinSamples: 20})
	baseline := syntheticWindow(100, 0.3)

	// Shift 40% of current budgets well outside the baseline mass.
	current := syntheticWindow(100, 0.3)
	for i := range current {
		if i%5 < 2 {
			vals := current[i].Clone()
			vals.Values[vectorize.FeatBudget] = 0.95
			current[i] = vals
		}
	}

	report, err := d.Detect(current, baseline)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !report.DriftDetected {
		t.Errorf("drift not detected, aggregate = %v", report.Aggregate)
	}
	if report.TopFeature != "budget" {
		t.Errorf("top feature = %q, want budget", report.TopFeature)
	}
	for _, fs := range report.Features {
		if fs.Feature == "budget" {
			continue
		}
		if fs.PSI >= report.Aggregate {
			t.Errorf("feature %q PSI %v should stay below aggregate %v", fs.Feature, fs.PSI, report.Aggregate)
		}
	}
}

func TestDetectSchemeMismatch(t *testing.T) {
	d := testDetector(t, Config{Bins: 10, Threshold: 0.2, MinSamples: 5})
	baseline := syntheticWindow(30, 0.3)
	current := syntheticWindow(30, 0.3)
	current[7].SchemeVersion = "scheme-v2"

	if _, err := d.Detect(current, baseline); !errors.Is(err, vectorize.ErrSchemeMismatch) {
		t.Errorf("err = %v, want ErrSchemeMismatch", err)
	}

	baseline[0].SchemeVersion = "scheme-v0"
	if _, err := d.Detect(syntheticWindow(30, 0.3), baseline); !errors.Is(err, vectorize.ErrSchemeMismatch) {
		t.Errorf("mixed baseline err = %v, want ErrSchemeMismatch", err)
	}
}

func TestDetectWindowGuards(t *testing.T) {
	d := testDetector(t, Config{Bins: 10, Threshold: 0.2, MinSamples: 20})

	if _, err := d.Detect(syntheticWindow(30, 0.3), nil); !errors.Is(err, ErrEmptyBaseline) {
		t.Errorf("empty baseline err = %v, want ErrEmptyBaseline", err)
	}
	if _, err := d.Detect(syntheticWindow(5, 0.3), syntheticWindow(30, 0.3)); !errors.Is(err, ErrWindowTooSmall) {
		t.Errorf("small window err = %v, want ErrWindowTooSmall", err)
	}
}

func TestPopulationStabilityIndex(t *testing.T) {
	spread := func(n int, lo, hi float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		return out
	}

	t.Run("identical samples cancel exactly", func(t *testing.T) {
		vals := spread(50, 0.1, 0.9)
		if psi := populationStabilityIndex(vals, vals, 10); psi != 0 {
			t.Errorf("psi = %v, want 0", psi)
		}
	})

	t.Run("disjoint ranges score high", func(t *testing.T) {
		base := spread(50, 0.0, 0.3)
		cur := spread(50, 0.7, 1.0)
		if psi := populationStabilityIndex(cur, base, 10); psi < 1.0 {
			t.Errorf("psi = %v, want large score for disjoint ranges", psi)
		}
	})

	t.Run("constant baseline with moved current", func(t *testing.T) {
		base := []float64{0.5, 0.5, 0.5, 0.5}
		cur := []float64{0.5, 0.9, 0.9, 0.9}
		psi := populationStabilityIndex(cur, base, 10)
		if psi <= 0 {
			t.Errorf("psi = %v, want positive for departures from point mass", psi)
		}
	})

	t.Run("constant baseline unchanged current", func(t *testing.T) {
		base := []float64{0.5, 0.5, 0.5}
		cur := []float64{0.5, 0.5}
		if psi := populationStabilityIndex(cur, base, 10); psi != 0 {
			t.Errorf("psi = %v, want 0", psi)
		}
	})
}

func TestQuantileEdges(t *testing.T) {
	t.Run("constant values yield no edges", func(t *testing.T) {
		if edges := quantileEdges([]float64{0.4, 0.4, 0.4}, 10); edges != nil {
			t.Errorf("edges = %v, want nil", edges)
		}
	})

	t.Run("edges are strictly increasing", func(t *testing.T) {
		vals := make([]float64, 100)
		for i := range vals {
			vals[i] = float64(i) / 100
		}
		edges := quantileEdges(vals, 10)
		if len(edges) == 0 {
			t.Fatal("no edges for spread data")
		}
		for i := 1; i < len(edges); i++ {
			if edges[i] <= edges[i-1] {
				t.Errorf("edges not increasing at %d: %v", i, edges)
			}
		}
	})
}

func TestBinCountsBoundaries(t *testing.T) {
	edges := []float64{0.3, 0.6}
	counts := binCounts([]float64{0.1, 0.3, 0.4, 0.6, 0.9}, edges)

	want := []int{2, 2, 1}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("bin %d = %d, want %d (boundary values belong to the lower bin)", i, counts[i], want[i])
		}
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 5 {
		t.Errorf("total binned = %d, want 5", total)
	}
}

func TestConstantFeaturePSISymmetricInMagnitude(t *testing.T) {
	small := constantFeaturePSI([]float64{0.5, 0.5, 0.5, 0.6}, 0.5)
	large := constantFeaturePSI([]float64{0.6, 0.6, 0.6, 0.5}, 0.5)
	if small <= 0 || large <= 0 {
		t.Fatalf("psi values must be positive: small=%v large=%v", small, large)
	}
	if large <= small {
		t.Errorf("more movement should score higher: small=%v large=%v", small, large)
	}
	if math.IsInf(large, 0) || math.IsNaN(large) {
		t.Errorf("psi not finite: %v", large)
	}
}
