// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package vectorize

import (
	"math"
	"testing"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
)

func fullUser() *profile.Profile {
	return &profile.Profile{
		ID:               "u-1",
		Kind:             profile.KindUser,
		Locations:        []string{"Cambridge", "Somerville"},
		GenderPreference: "Female",
		Budget:           1800,
		LeaseMonths:      12,
		RoomType:         "Private",
		Bathroom:         "Yes",
		Food:             "Vegetarian",
		Alcohol:          "Rarely",
		Smoke:            "No",
		Utilities:        []string{"Heat", "Electricity"},
	}
}

func TestVectorizeFixedDimension(t *testing.T) {
	s := DefaultScheme()

	tests := []struct {
		name    string
		mutate  func(p *profile.Profile)
		wantErr bool
	}{
		{name: "all fields present", mutate: func(p *profile.Profile) {}},
		{name: "optional lifestyle omitted", mutate: func(p *profile.Profile) {
			p.Food, p.Alcohol, p.Smoke = "", "", ""
		}},
		{name: "room type and bathroom omitted", mutate: func(p *profile.Profile) {
			p.RoomType, p.Bathroom = "", ""
		}},
		{name: "utilities omitted", mutate: func(p *profile.Profile) {
			p.Utilities = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullUser()
			tt.mutate(p)
			v, err := Vectorize(p, s)
			if err != nil {
				t.Fatalf("Vectorize() error = %v", err)
			}
			if len(v.Values) != Dim {
				t.Errorf("len(Values) = %d, want %d", len(v.Values), Dim)
			}
			if v.SchemeVersion != s.Version {
				t.Errorf("SchemeVersion = %q, want %q", v.SchemeVersion, s.Version)
			}
			if v.ProfileID != p.ID {
				t.Errorf("ProfileID = %q, want %q", v.ProfileID, p.ID)
			}
		})
	}
}

func TestVectorizeDeterministic(t *testing.T) {
	s := DefaultScheme()
	p := fullUser()

	a, err := Vectorize(p, s)
	if err != nil {
		t.Fatalf("Vectorize() error = %v", err)
	}
	b, err := Vectorize(p, s)
	if err != nil {
		t.Fatalf("Vectorize() error = %v", err)
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Errorf("Values[%d]: %v != %v", i, a.Values[i], b.Values[i])
		}
	}
}

func TestVectorizeWeightsApplied(t *testing.T) {
	s := DefaultScheme()
	p := fullUser()
	p.GenderPreference = "Female" // encodes to 1.0 before weighting

	v, err := Vectorize(p, s)
	if err != nil {
		t.Fatalf("Vectorize() error = %v", err)
	}
	if got := v.Values[FeatGender]; got != s.Weights.Gender {
		t.Errorf("gender feature = %v, want weight %v", got, s.Weights.Gender)
	}
}

func TestVectorizeClampsOutOfRange(t *testing.T) {
	s := DefaultScheme()
	p := fullUser()
	p.Budget = 9000 // above BudgetMax

	v, err := Vectorize(p, s)
	if err != nil {
		t.Fatalf("Vectorize() error = %v", err)
	}
	if got := v.Values[FeatBudget]; got != s.Weights.Budget {
		t.Errorf("budget feature = %v, want clamped max %v", got, s.Weights.Budget)
	}
}

func TestVectorizeSchemaViolation(t *testing.T) {
	s := DefaultScheme()

	tests := []struct {
		name   string
		mutate func(p *profile.Profile)
	}{
		{"unknown location", func(p *profile.Profile) { p.Locations = []string{"Gotham"} }},
		{"unknown gender value", func(p *profile.Profile) { p.GenderPreference = "Robot" }},
		{"unknown food value", func(p *profile.Profile) { p.Food = "Carnivore" }},
		{"unknown smoke value", func(p *profile.Profile) { p.Smoke = "Sometimes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullUser()
			tt.mutate(p)
			_, err := Vectorize(p, s)
			if !IsSchemaViolation(err) {
				t.Errorf("Vectorize() error = %v, want SchemaViolationError", err)
			}
		})
	}
}

func TestVectorizeIncompleteProfile(t *testing.T) {
	s := DefaultScheme()

	tests := []struct {
		name   string
		mutate func(p *profile.Profile)
	}{
		{"no locations", func(p *profile.Profile) { p.Locations = nil }},
		{"no budget", func(p *profile.Profile) { p.Budget = 0 }},
		{"no lease", func(p *profile.Profile) { p.LeaseMonths = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullUser()
			tt.mutate(p)
			_, err := Vectorize(p, s)
			if !IsIncompleteProfile(err) {
				t.Errorf("Vectorize() error = %v, want IncompleteProfileError", err)
			}
		})
	}
}

func TestVectorizeDefaultWithoutFallbackFails(t *testing.T) {
	s := DefaultScheme()
	s.Defaults.Food = "" // no configured default

	p := fullUser()
	p.Food = ""

	_, err := Vectorize(p, s)
	if !IsIncompleteProfile(err) {
		t.Errorf("Vectorize() error = %v, want IncompleteProfileError", err)
	}
}

func TestVectorizeValuesFinite(t *testing.T) {
	s := DefaultScheme()
	v, err := Vectorize(fullUser(), s)
	if err != nil {
		t.Fatalf("Vectorize() error = %v", err)
	}
	for i, val := range v.Values {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			t.Errorf("Values[%d] = %v, want finite", i, val)
		}
	}
}

func TestCheckProfile(t *testing.T) {
	s := DefaultScheme()

	ok := fullUser()
	if err := s.CheckProfile(ok); err != nil {
		t.Errorf("CheckProfile(valid) error = %v", err)
	}

	bad := fullUser()
	bad.Alcohol = "Constantly"
	if err := s.CheckProfile(bad); !IsSchemaViolation(err) {
		t.Errorf("CheckProfile(bad) error = %v, want SchemaViolationError", err)
	}

	// Empty optional fields pass the vocabulary check.
	sparse := &profile.Profile{ID: "u-2", Kind: profile.KindUser, Locations: []string{"Fenway"}}
	if err := s.CheckProfile(sparse); err != nil {
		t.Errorf("CheckProfile(sparse) error = %v", err)
	}
}

func TestWithWeights(t *testing.T) {
	s := DefaultScheme()
	w := DefaultWeights()
	w.Budget = 5.0

	s2 := s.WithWeights("v2", w)
	if s2.Version != "v2" || s2.Weights.Budget != 5.0 {
		t.Errorf("WithWeights() = %q/%v", s2.Version, s2.Weights.Budget)
	}
	if s.Version != "v1" || s.Weights.Budget != 3.0 {
		t.Error("WithWeights() mutated the receiver")
	}
}
