// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package fairness

import (
	"testing"

	"github.com/rs/zerolog"
)

func testThresholds() Thresholds {
	return Thresholds{
		RepresentationLow:   0.5,
		RepresentationHigh:  2.0,
		MaxRankGap:          3.0,
		MaxParityDifference: 0.25,
	}
}

// balancedOutcome selects one candidate from each of two groups.
func balancedOutcome(query string) Outcome {
	return Outcome{
		QueryID: query,
		Candidates: []Candidate{
			{ID: "a1", Group: "Female", Selected: true, Rank: 1},
			{ID: "b1", Group: "Male", Selected: true, Rank: 2},
			{ID: "a2", Group: "Female"},
			{ID: "b2", Group: "Male"},
		},
	}
}

// skewedOutcome selects only group "Female" candidates despite a balanced pool.
func skewedOutcome(query string) Outcome {
	return Outcome{
		QueryID: query,
		Candidates: []Candidate{
			{ID: "a1", Group: "Female", Selected: true, Rank: 1},
			{ID: "a2", Group: "Female", Selected: true, Rank: 2},
			{ID: "b1", Group: "Male"},
			{ID: "b2", Group: "Male"},
		},
	}
}

func TestAuditBalancedPasses(t *testing.T) {
	a := NewAuditor(testThresholds(), zerolog.Nop())

	outcomes := []Outcome{balancedOutcome("q1"), balancedOutcome("q2")}
	report, err := a.Audit(outcomes, []Attribute{{Name: "gender"}}, "m-1")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	if !report.Passed {
		t.Errorf("balanced outcomes failed audit: %+v", report.Slices)
	}
	if report.ModelVersion != "m-1" {
		t.Errorf("ModelVersion = %q", report.ModelVersion)
	}

	gender := report.Slices[0]
	female := gender.Groups["Female"]
	if female.SelectionRate != 0.5 {
		t.Errorf("Female selection rate = %v, want 0.5", female.SelectionRate)
	}
	if gender.ParityDifference != 0 {
		t.Errorf("ParityDifference = %v, want 0", gender.ParityDifference)
	}
}

func TestAuditSkewedFailsParity(t *testing.T) {
	a := NewAuditor(testThresholds(), zerolog.Nop())

	outcomes := []Outcome{skewedOutcome("q1"), skewedOutcome("q2")}
	report, err := a.Audit(outcomes, []Attribute{{Name: "gender"}}, "m-1")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	if report.Passed {
		t.Fatal("skewed outcomes passed audit")
	}

	v, ok := report.FirstViolation()
	if !ok {
		t.Fatal("no violation recorded")
	}
	// Selection rate gap is 1.0 (Female) - 0.0 (Male) = 1.0.
	found := false
	for _, slice := range report.Slices {
		for _, viol := range slice.Violations {
			if viol.Metric == "statistical_parity_difference" && viol.Observed == 1.0 {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected parity violation with observed 1.0, first = %+v", v)
	}
}

func TestAuditRepresentationRatio(t *testing.T) {
	a := NewAuditor(testThresholds(), zerolog.Nop())

	// Pool is 3/4 Male but selections are all Female:
	// Female ratio = (1.0 selected share) / (0.25 pool share) = 4.0 > 2.0.
	outcome := Outcome{
		QueryID: "q1",
		Candidates: []Candidate{
			{ID: "a1", Group: "Female", Selected: true, Rank: 1},
			{ID: "a2", Group: "Female", Selected: true, Rank: 2},
			{ID: "b1", Group: "Male"},
			{ID: "b2", Group: "Male"},
			{ID: "b3", Group: "Male"},
			{ID: "b4", Group: "Male"},
			{ID: "b5", Group: "Male"},
			{ID: "b6", Group: "Male"},
		},
	}
	report, err := a.Audit([]Outcome{outcome}, []Attribute{{Name: "gender"}}, "m-1")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if report.Passed {
		t.Error("over-represented group passed audit")
	}

	ratio := report.Slices[0].Groups["Female"].RepresentationRatio
	if ratio <= testThresholds().RepresentationHigh {
		t.Errorf("Female representation ratio = %v, want > %v", ratio, testThresholds().RepresentationHigh)
	}
}

func TestAuditGroupFnOverridesGroups(t *testing.T) {
	a := NewAuditor(testThresholds(), zerolog.Nop())

	groups := map[string]string{"r-1": "Cambridge", "r-2": "Allston"}
	outcome := Outcome{
		QueryID: "q1",
		Candidates: []Candidate{
			{ID: "r-1", Selected: true, Rank: 1},
			{ID: "r-2"},
			{ID: "r-3"}, // unknown: excluded from the slice
		},
	}
	attr := Attribute{
		Name: "location",
		GroupOf: func(id string) (string, bool) {
			g, ok := groups[id]
			return g, ok
		},
	}

	report, err := a.Audit([]Outcome{outcome}, []Attribute{attr}, "m-1")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	slice := report.Slices[0]
	if _, ok := slice.Groups["Cambridge"]; !ok {
		t.Errorf("missing Cambridge group: %+v", slice.Groups)
	}
	if len(slice.Groups) != 2 {
		t.Errorf("group count = %d, want 2 (unknown excluded)", len(slice.Groups))
	}
}

func TestAuditNoOutcomes(t *testing.T) {
	a := NewAuditor(testThresholds(), zerolog.Nop())
	if _, err := a.Audit(nil, nil, "m-1"); err != ErrNoOutcomes {
		t.Errorf("Audit(nil) error = %v, want ErrNoOutcomes", err)
	}
}

func TestSamplerRingAndReset(t *testing.T) {
	s := NewSampler(1000, 3)

	for i := 0; i < 5; i++ {
		s.Record(Outcome{QueryID: string(rune('a' + i))})
	}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want ring size 3", s.Len())
	}
	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Snapshot() len = %d", len(snap))
	}
	// Oldest-first: c, d, e survive.
	if snap[0].QueryID != "c" || snap[2].QueryID != "e" {
		t.Errorf("Snapshot order = %q..%q, want c..e", snap[0].QueryID, snap[2].QueryID)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d", s.Len())
	}
}

func TestSamplerAdmitRateLimits(t *testing.T) {
	// Burst of 1 at 1/s: only the first admission in a tight loop succeeds,
	// so callers skip building outcomes for the rest.
	s := NewSampler(1, 10)
	admitted := 0
	for i := 0; i < 100; i++ {
		if s.Admit() {
			admitted++
			s.Record(Outcome{QueryID: "q"})
		}
	}
	if admitted != 1 {
		t.Errorf("admitted = %d, want 1", admitted)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1 recorded", got)
	}
}
