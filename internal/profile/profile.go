// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package profile

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind distinguishes user profiles from room listings.
type Kind string

const (
	// KindUser is a person looking for a room.
	KindUser Kind = "user"
	// KindRoom is a room listing.
	KindRoom Kind = "room"
)

// Sensitive attribute names accepted by the fairness auditor.
const (
	AttributeGender   = "gender"
	AttributeLocation = "location"
)

// Profile is a user or room record subject to vectorization and matching.
//
// Categorical fields (Location, RoomType, Bathroom, GenderPreference and the
// lifestyle fields) must map to the vectorization scheme's vocabulary; unknown
// values are rejected at ingestion, never silently dropped.
type Profile struct {
	// ID uniquely identifies the profile.
	ID string `json:"id" validate:"required"`

	// Kind is "user" or "room".
	Kind Kind `json:"kind" validate:"required,oneof=user room"`

	// Locations is the room's neighborhood (single entry) or the user's
	// preferred neighborhoods (one or more).
	Locations []string `json:"locations" validate:"omitempty,dive,min=1"`

	// GenderPreference is the desired flatmate gender mix (Male, Female, Mixed).
	GenderPreference string `json:"gender_preference,omitempty"`

	// Budget is the user's maximum monthly budget, or the room's rent, in USD.
	Budget float64 `json:"budget" validate:"omitempty,gte=0"`

	// LeaseMonths is the desired or offered lease duration in months.
	LeaseMonths int `json:"lease_months" validate:"omitempty,gte=0,lte=60"`

	// RoomType is Shared or Private.
	RoomType string `json:"room_type,omitempty"`

	// Bathroom indicates an attached bathroom (Yes, No).
	Bathroom string `json:"bathroom,omitempty"`

	// Bedrooms and Bathrooms are unit-level counts for room listings.
	Bedrooms  int `json:"bedrooms,omitempty" validate:"omitempty,gte=0,lte=20"`
	Bathrooms int `json:"bathrooms,omitempty" validate:"omitempty,gte=0,lte=20"`

	// Lifestyle fields.
	Food    string `json:"food,omitempty"`
	Alcohol string `json:"alcohol,omitempty"`
	Smoke   string `json:"smoke,omitempty"`

	// Utilities lists included (room) or desired (user) utilities.
	Utilities []string `json:"utilities,omitempty"`

	// Bio and Interests are free text; they are not part of the feature
	// vector unless a text embedding scheme is configured.
	Bio       string   `json:"bio,omitempty"`
	Interests []string `json:"interests,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsUser reports whether the profile is a user profile.
func (p *Profile) IsUser() bool { return p.Kind == KindUser }

// IsRoom reports whether the profile is a room listing.
func (p *Profile) IsRoom() bool { return p.Kind == KindRoom }

// Attribute returns the profile's value for a sensitive attribute name.
// Room listings expose their flatmate gender preference as "gender" and
// their neighborhood as "location".
func (p *Profile) Attribute(name string) (string, bool) {
	switch name {
	case AttributeGender:
		if p.GenderPreference == "" {
			return "", false
		}
		return p.GenderPreference, true
	case AttributeLocation:
		if len(p.Locations) == 0 {
			return "", false
		}
		return p.Locations[0], true
	default:
		return "", false
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Locations = append([]string(nil), p.Locations...)
	cp.Utilities = append([]string(nil), p.Utilities...)
	cp.Interests = append([]string(nil), p.Interests...)
	return &cp
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance. The instance caches
// struct reflection info, so a singleton is both faster and safe for
// concurrent use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct performs structural validation of a profile: required
// fields, numeric ranges, enum kind. Vocabulary membership of categorical
// values is checked separately by the vectorization scheme.
func ValidateStruct(p *Profile) error {
	if err := Validator().Struct(p); err != nil {
		return fmt.Errorf("profile %q: %w", p.ID, err)
	}
	return nil
}
