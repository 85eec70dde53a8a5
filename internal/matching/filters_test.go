// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package matching

import (
	"errors"
	"testing"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

func TestFiltersValidate(t *testing.T) {
	scheme := vectorize.DefaultScheme()

	tests := []struct {
		name    string
		filters Filters
		wantErr bool
		field   string
	}{
		{name: "empty filters", filters: Filters{}},
		{
			name: "all known values",
			filters: Filters{
				MaxRent:      1500,
				Locations:    []string{"Cambridge", "Somerville"},
				Gender:       "Female",
				RoomType:     "Private",
				Bathroom:     "Yes",
				ExcludeSmoke: []string{"Yes"},
				ExcludeFood:  []string{"Everything"},
			},
		},
		{
			name:    "unknown location",
			filters: Filters{Locations: []string{"Atlantis"}},
			wantErr: true,
			field:   "locations",
		},
		{
			name:    "unknown gender",
			filters: Filters{Gender: "Other"},
			wantErr: true,
			field:   "gender",
		},
		{
			name:    "unknown smoke exclusion",
			filters: Filters{ExcludeSmoke: []string{"Sometimes"}},
			wantErr: true,
			field:   "exclude_smoke",
		},
		{
			name:    "negative rent",
			filters: Filters{MaxRent: -10},
			wantErr: true,
			field:   "max_rent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate(scheme)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsInvalidFilter(err) {
				t.Fatalf("err = %v, want InvalidFilterError", err)
			}
			var ferr *InvalidFilterError
			if !errors.As(err, &ferr) {
				t.Fatalf("err = %v, want *InvalidFilterError", err)
			}
			if ferr.Field != tt.field {
				t.Errorf("field = %q, want %q", ferr.Field, tt.field)
			}
		})
	}
}

func TestFiltersAdmit(t *testing.T) {
	room := &profile.Profile{
		ID:               "room-1",
		Kind:             profile.KindRoom,
		Locations:        []string{"Cambridge"},
		GenderPreference: "Mixed",
		Budget:           1200,
		LeaseMonths:      12,
		RoomType:         "Private",
		Bathroom:         "Yes",
		Food:             "Everything",
		Alcohol:          "Occasionally",
		Smoke:            "No",
	}

	tests := []struct {
		name    string
		filters Filters
		admit   bool
	}{
		{name: "no constraints", filters: Filters{}, admit: true},
		{name: "rent under cap", filters: Filters{MaxRent: 1500}, admit: true},
		{name: "rent over cap", filters: Filters{MaxRent: 1000}, admit: false},
		{name: "location member", filters: Filters{Locations: []string{"Cambridge", "Allston"}}, admit: true},
		{name: "location not member", filters: Filters{Locations: []string{"Allston"}}, admit: false},
		{name: "mixed admits any gender", filters: Filters{Gender: "Female"}, admit: true},
		{name: "room type match", filters: Filters{RoomType: "Private"}, admit: true},
		{name: "room type mismatch", filters: Filters{RoomType: "Shared"}, admit: false},
		{name: "lease within max", filters: Filters{MaxLeaseMonths: 12}, admit: true},
		{name: "lease over max", filters: Filters{MaxLeaseMonths: 6}, admit: false},
		{name: "smoke not excluded", filters: Filters{ExcludeSmoke: []string{"Yes"}}, admit: true},
		{name: "alcohol excluded", filters: Filters{ExcludeAlcohol: []string{"Occasionally"}}, admit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Admit(room); got != tt.admit {
				t.Errorf("Admit = %v, want %v", got, tt.admit)
			}
		})
	}
}

func TestFiltersAdmitStrictGender(t *testing.T) {
	room := &profile.Profile{
		ID:               "room-2",
		Kind:             profile.KindRoom,
		GenderPreference: "Male",
	}
	f := Filters{Gender: "Female"}
	if f.Admit(room) {
		t.Error("Male-preference room admitted a Female gender filter")
	}
}
