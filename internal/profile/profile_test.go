// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package profile

import (
	"testing"
	"time"
)

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{
			name: "valid user",
			profile: Profile{
				ID:          "u-1",
				Kind:        KindUser,
				Locations:   []string{"Cambridge"},
				Budget:      1500,
				LeaseMonths: 12,
			},
			wantErr: false,
		},
		{
			name: "valid room",
			profile: Profile{
				ID:          "r-1",
				Kind:        KindRoom,
				Locations:   []string{"Allston"},
				Budget:      1200,
				LeaseMonths: 6,
				RoomType:    "Private",
			},
			wantErr: false,
		},
		{
			name:    "missing id",
			profile: Profile{Kind: KindUser},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			profile: Profile{ID: "x-1", Kind: Kind("listing")},
			wantErr: true,
		},
		{
			name:    "negative budget",
			profile: Profile{ID: "u-2", Kind: KindUser, Budget: -10},
			wantErr: true,
		},
		{
			name:    "lease out of range",
			profile: Profile{ID: "u-3", Kind: KindUser, LeaseMonths: 120},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.profile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttribute(t *testing.T) {
	p := Profile{
		ID:               "r-1",
		Kind:             KindRoom,
		Locations:        []string{"Somerville"},
		GenderPreference: "Mixed",
	}

	if got, ok := p.Attribute(AttributeGender); !ok || got != "Mixed" {
		t.Errorf("Attribute(gender) = %q, %v", got, ok)
	}
	if got, ok := p.Attribute(AttributeLocation); !ok || got != "Somerville" {
		t.Errorf("Attribute(location) = %q, %v", got, ok)
	}
	if _, ok := p.Attribute("shoe_size"); ok {
		t.Error("Attribute() accepted unknown attribute name")
	}

	empty := Profile{ID: "u-1", Kind: KindUser}
	if _, ok := empty.Attribute(AttributeGender); ok {
		t.Error("Attribute(gender) on empty profile should report absent")
	}
}

func TestClone(t *testing.T) {
	p := &Profile{
		ID:        "u-1",
		Kind:      KindUser,
		Locations: []string{"Fenway"},
		Utilities: []string{"Heat"},
		UpdatedAt: time.Now(),
	}

	cp := p.Clone()
	cp.Locations[0] = "Brighton"
	cp.Utilities = append(cp.Utilities, "Electricity")

	if p.Locations[0] != "Fenway" {
		t.Error("Clone() shares Locations backing array")
	}
	if len(p.Utilities) != 1 {
		t.Error("Clone() shares Utilities backing array")
	}
}
