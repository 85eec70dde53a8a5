// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package matching

import (
	"slices"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// Filters are the hard constraints applied before scoring. A zero-valued
// field means the constraint is not applied. Every returned match satisfies
// every set constraint; there is no soft fallback.
type Filters struct {
	// MaxRent rejects candidates whose budget exceeds it.
	MaxRent float64 `json:"max_rent,omitempty"`

	// Locations requires candidate location membership in this list.
	Locations []string `json:"locations,omitempty"`

	// Gender requires the candidate's gender preference to match, with
	// Mixed candidates accepting any gender filter.
	Gender string `json:"gender,omitempty"`

	// RoomType requires an exact room type match.
	RoomType string `json:"room_type,omitempty"`

	// Bathroom requires an exact attached-bathroom match.
	Bathroom string `json:"bathroom,omitempty"`

	// MaxLeaseMonths rejects candidates requiring a longer lease.
	MaxLeaseMonths int `json:"max_lease_months,omitempty"`

	// Lifestyle exclusions reject candidates whose value appears in the
	// list.
	ExcludeSmoke   []string `json:"exclude_smoke,omitempty"`
	ExcludeAlcohol []string `json:"exclude_alcohol,omitempty"`
	ExcludeFood    []string `json:"exclude_food,omitempty"`
}

// Validate checks every filter value against the scheme's vocabulary.
// Unknown values are a hard error; a filter that silently matched nothing
// would be indistinguishable from a genuinely empty result.
func (f *Filters) Validate(s *vectorize.Scheme) error {
	for _, loc := range f.Locations {
		if _, ok := s.Locations[loc]; !ok {
			return &InvalidFilterError{Field: "locations", Value: loc}
		}
	}

	checks := []struct {
		field  string
		values []string
		vocab  map[string]float64
	}{
		{"gender", single(f.Gender), s.GenderMap},
		{"room_type", single(f.RoomType), s.RoomTypes},
		{"bathroom", single(f.Bathroom), s.Bathrooms},
		{"exclude_smoke", f.ExcludeSmoke, s.SmokeMap},
		{"exclude_alcohol", f.ExcludeAlcohol, s.AlcoholMap},
		{"exclude_food", f.ExcludeFood, s.FoodMap},
	}
	for _, c := range checks {
		for _, v := range c.values {
			if _, ok := c.vocab[v]; !ok {
				return &InvalidFilterError{Field: c.field, Value: v}
			}
		}
	}

	if f.MaxRent < 0 {
		return &InvalidFilterError{Field: "max_rent", Value: "negative"}
	}
	if f.MaxLeaseMonths < 0 {
		return &InvalidFilterError{Field: "max_lease_months", Value: "negative"}
	}
	return nil
}

// Admit reports whether a candidate passes every set constraint.
func (f *Filters) Admit(p *profile.Profile) bool {
	if f.MaxRent > 0 && p.Budget > f.MaxRent {
		return false
	}
	if len(f.Locations) > 0 && !intersects(p.Locations, f.Locations) {
		return false
	}
	if f.Gender != "" && p.GenderPreference != f.Gender && p.GenderPreference != "Mixed" {
		return false
	}
	if f.RoomType != "" && p.RoomType != f.RoomType {
		return false
	}
	if f.Bathroom != "" && p.Bathroom != f.Bathroom {
		return false
	}
	if f.MaxLeaseMonths > 0 && p.LeaseMonths > f.MaxLeaseMonths {
		return false
	}
	if slices.Contains(f.ExcludeSmoke, p.Smoke) {
		return false
	}
	if slices.Contains(f.ExcludeAlcohol, p.Alcohol) {
		return false
	}
	if slices.Contains(f.ExcludeFood, p.Food) {
		return false
	}
	return true
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}
