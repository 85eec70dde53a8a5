// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package vectorize

import (
	"fmt"
	"math"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
)

// FeatureVector is a fixed-dimension weighted encoding of a profile, tagged
// with the scheme version that produced it and the source profile ID.
type FeatureVector struct {
	ProfileID     string    `json:"profile_id"`
	SchemeVersion string    `json:"scheme_version"`
	Values        []float64 `json:"values"`
}

// Clone returns a copy with its own backing array.
func (v FeatureVector) Clone() FeatureVector {
	return FeatureVector{
		ProfileID:     v.ProfileID,
		SchemeVersion: v.SchemeVersion,
		Values:        append([]float64(nil), v.Values...),
	}
}

// Vectorize encodes a profile under the scheme. It is a pure function: no
// side effects, deterministic for identical inputs.
//
// Users average the coordinates of their preferred neighborhoods; rooms use
// their single listed neighborhood. Numeric features are min-max normalized
// with clamping to [0,1]; categorical features map through the scheme's
// vocabularies; the utilities count saturates at the scheme's cap. The
// normalized vector is multiplied element-wise by the scheme weights.
func Vectorize(p *profile.Profile, s *Scheme) (FeatureVector, error) {
	var raw [Dim]float64

	lat, lon, err := locationFeatures(p, s)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatLatitude] = clamp01((lat - s.Bounds.LatMin) / (s.Bounds.LatMax - s.Bounds.LatMin))
	raw[FeatLongitude] = clamp01((lon - s.Bounds.LonMin) / (s.Bounds.LonMax - s.Bounds.LonMin))

	gender, err := categorical(p.GenderPreference, s.Defaults.GenderPreference, "gender_preference", s.GenderMap)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatGender] = gender

	if p.Budget <= 0 {
		return FeatureVector{}, &IncompleteProfileError{Field: "budget"}
	}
	raw[FeatBudget] = clamp01((p.Budget - s.Bounds.BudgetMin) / (s.Bounds.BudgetMax - s.Bounds.BudgetMin))

	if p.LeaseMonths <= 0 {
		return FeatureVector{}, &IncompleteProfileError{Field: "lease_months"}
	}
	raw[FeatLease] = clamp01((float64(p.LeaseMonths) - s.Bounds.LeaseMin) / (s.Bounds.LeaseMax - s.Bounds.LeaseMin))

	roomType, err := categorical(p.RoomType, s.Defaults.RoomType, "room_type", s.RoomTypes)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatRoomType] = roomType

	bathroom, err := categorical(p.Bathroom, s.Defaults.Bathroom, "bathroom", s.Bathrooms)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatBathroom] = bathroom

	food, err := categorical(p.Food, s.Defaults.Food, "food", s.FoodMap)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatFood] = food

	alcohol, err := categorical(p.Alcohol, s.Defaults.Alcohol, "alcohol", s.AlcoholMap)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatAlcohol] = alcohol

	smoke, err := categorical(p.Smoke, s.Defaults.Smoke, "smoke", s.SmokeMap)
	if err != nil {
		return FeatureVector{}, err
	}
	raw[FeatSmoke] = smoke

	utilities := p.Utilities
	if len(utilities) == 0 {
		utilities = s.Defaults.Utilities
	}
	utilCap := s.UtilityCap
	if utilCap <= 0 {
		utilCap = 4
	}
	raw[FeatUtilities] = math.Min(1.0, float64(len(utilities))/float64(utilCap))

	weights := s.Weights.PerFeature()
	values := make([]float64, Dim)
	for i := range raw {
		values[i] = raw[i] * weights[i]
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return FeatureVector{}, fmt.Errorf("vectorize %q: feature %s is not finite", p.ID, FeatureName(i))
		}
	}

	return FeatureVector{
		ProfileID:     p.ID,
		SchemeVersion: s.Version,
		Values:        values,
	}, nil
}

// locationFeatures resolves the profile's neighborhoods to averaged
// coordinates. Location is required for both users and rooms.
func locationFeatures(p *profile.Profile, s *Scheme) (lat, lon float64, err error) {
	if len(p.Locations) == 0 {
		return 0, 0, &IncompleteProfileError{Field: "locations"}
	}
	var sumLat, sumLon float64
	for _, name := range p.Locations {
		coord, ok := s.Locations[name]
		if !ok {
			return 0, 0, &SchemaViolationError{Field: "locations", Value: name}
		}
		sumLat += coord.Lat
		sumLon += coord.Lon
	}
	n := float64(len(p.Locations))
	return sumLat / n, sumLon / n, nil
}

// categorical encodes a vocabulary value, falling back to the scheme default
// when the field is empty. An empty field with an empty default is an
// incomplete profile; a non-empty value outside the vocabulary is a schema
// violation.
func categorical(value, fallback, field string, vocab map[string]float64) (float64, error) {
	if value == "" {
		value = fallback
	}
	if value == "" {
		return 0, &IncompleteProfileError{Field: field}
	}
	enc, ok := vocab[value]
	if !ok {
		return 0, &SchemaViolationError{Field: field, Value: value}
	}
	return enc, nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
