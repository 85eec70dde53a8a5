// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package vectorize

import (
	"fmt"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
)

// Dim is the fixed feature vector dimension. Every vector produced by any
// scheme has exactly this many values, regardless of which optional profile
// fields are present.
const Dim = 11

// Feature indices into a FeatureVector's Values slice.
const (
	FeatLatitude = iota
	FeatLongitude
	FeatGender
	FeatBudget
	FeatLease
	FeatRoomType
	FeatBathroom
	FeatFood
	FeatAlcohol
	FeatSmoke
	FeatUtilities
)

// featureNames maps feature indices to stable names used in drift reports
// and metrics labels.
var featureNames = [Dim]string{
	"latitude", "longitude", "gender", "budget", "lease_months",
	"room_type", "bathroom", "food", "alcohol", "smoke", "utilities",
}

// FeatureName returns the stable name for a feature index.
func FeatureName(i int) string {
	if i < 0 || i >= Dim {
		return fmt.Sprintf("feature_%d", i)
	}
	return featureNames[i]
}

// Coordinate is a latitude/longitude pair for a known neighborhood.
type Coordinate struct {
	Lat float64 `json:"lat" koanf:"lat"`
	Lon float64 `json:"lon" koanf:"lon"`
}

// CategoryWeights are the per-category multipliers applied after
// normalization. Latitude and longitude share the Location weight. The
// weights are part of the scheme and must be identical for the users and
// rooms being compared; they are exactly the parameters retraining
// re-derives.
type CategoryWeights struct {
	Location  float64 `json:"location" koanf:"location"`
	Gender    float64 `json:"gender" koanf:"gender"`
	Budget    float64 `json:"budget" koanf:"budget"`
	Lease     float64 `json:"lease" koanf:"lease"`
	RoomType  float64 `json:"room_type" koanf:"room_type"`
	Bathroom  float64 `json:"bathroom" koanf:"bathroom"`
	Food      float64 `json:"food" koanf:"food"`
	Alcohol   float64 `json:"alcohol" koanf:"alcohol"`
	Smoke     float64 `json:"smoke" koanf:"smoke"`
	Utilities float64 `json:"utilities" koanf:"utilities"`
}

// PerFeature expands category weights into the per-index multiplier array.
func (w CategoryWeights) PerFeature() [Dim]float64 {
	return [Dim]float64{
		w.Location, w.Location, w.Gender, w.Budget, w.Lease,
		w.RoomType, w.Bathroom, w.Food, w.Alcohol, w.Smoke, w.Utilities,
	}
}

// Bounds are the min-max normalization bounds for numeric features.
type Bounds struct {
	LatMin    float64 `json:"lat_min" koanf:"lat_min"`
	LatMax    float64 `json:"lat_max" koanf:"lat_max"`
	LonMin    float64 `json:"lon_min" koanf:"lon_min"`
	LonMax    float64 `json:"lon_max" koanf:"lon_max"`
	BudgetMin float64 `json:"budget_min" koanf:"budget_min"`
	BudgetMax float64 `json:"budget_max" koanf:"budget_max"`
	LeaseMin  float64 `json:"lease_min" koanf:"lease_min"`
	LeaseMax  float64 `json:"lease_max" koanf:"lease_max"`
}

// Defaults configures fallback values for optional profile fields. A field
// with no entry here is required: vectorizing a profile that omits it fails
// with IncompleteProfileError.
type Defaults struct {
	GenderPreference string   `json:"gender_preference" koanf:"gender_preference"`
	RoomType         string   `json:"room_type" koanf:"room_type"`
	Bathroom         string   `json:"bathroom" koanf:"bathroom"`
	Food             string   `json:"food" koanf:"food"`
	Alcohol          string   `json:"alcohol" koanf:"alcohol"`
	Smoke            string   `json:"smoke" koanf:"smoke"`
	Utilities        []string `json:"utilities" koanf:"utilities"`
}

// Scheme is a versioned vectorization scheme: vocabularies, bounds, weights
// and defaults. Schemes are immutable once built; retraining produces a new
// scheme rather than mutating the active one.
type Scheme struct {
	// Version tags every vector produced by this scheme.
	Version string `json:"version" koanf:"version"`

	// Locations maps known neighborhood names to coordinates.
	Locations map[string]Coordinate `json:"locations" koanf:"locations"`

	// Enumerated vocabularies mapping categorical values to encodings.
	GenderMap  map[string]float64 `json:"gender_map" koanf:"gender_map"`
	RoomTypes  map[string]float64 `json:"room_types" koanf:"room_types"`
	Bathrooms  map[string]float64 `json:"bathrooms" koanf:"bathrooms"`
	FoodMap    map[string]float64 `json:"food_map" koanf:"food_map"`
	AlcoholMap map[string]float64 `json:"alcohol_map" koanf:"alcohol_map"`
	SmokeMap   map[string]float64 `json:"smoke_map" koanf:"smoke_map"`

	// UtilityCap is the utility count at which the utilities feature
	// saturates at 1.0.
	UtilityCap int `json:"utility_cap" koanf:"utility_cap"`

	Bounds   Bounds          `json:"bounds" koanf:"bounds"`
	Weights  CategoryWeights `json:"weights" koanf:"weights"`
	Defaults Defaults        `json:"defaults" koanf:"defaults"`
}

// DefaultWeights returns the hand-tuned launch weights. Gender and lease
// duration are strict constraints and carry the highest weight; location and
// budget are high priority; bathroom and lifestyle are low priority.
func DefaultWeights() CategoryWeights {
	return CategoryWeights{
		Location:  3.0,
		Gender:    4.0,
		Budget:    3.0,
		Lease:     4.0,
		RoomType:  2.0,
		Bathroom:  1.0,
		Food:      1.0,
		Alcohol:   1.0,
		Smoke:     1.0,
		Utilities: 2.0,
	}
}

// DefaultScheme returns the launch scheme for the Boston metro deployment.
func DefaultScheme() *Scheme {
	return &Scheme{
		Version: "v1",
		Locations: map[string]Coordinate{
			"Boston":          {42.3601, -71.0589},
			"Downtown Boston": {42.3551, -71.0603},
			"Back Bay":        {42.3505, -71.0763},
			"South End":       {42.3414, -71.0742},
			"North End":       {42.3647, -71.0542},
			"Beacon Hill":     {42.3588, -71.0707},
			"Fenway":          {42.3467, -71.0972},
			"South Boston":    {42.3334, -71.0495},
			"East Boston":     {42.3713, -71.0395},
			"Charlestown":     {42.3782, -71.0602},
			"Roxbury":         {42.3318, -71.0828},
			"Jamaica Plain":   {42.3099, -71.1206},
			"Mission Hill":    {42.3331, -71.1008},
			"Cambridge":       {42.3736, -71.1097},
			"Central Square":  {42.3657, -71.1040},
			"Kendall Square":  {42.3656, -71.0857},
			"Harvard Square":  {42.3736, -71.1190},
			"Somerville":      {42.3876, -71.0995},
			"Union Square":    {42.3793, -71.0936},
			"Davis Square":    {42.3967, -71.1226},
			"Brookline":       {42.3318, -71.1212},
			"Coolidge Corner": {42.3421, -71.1211},
			"Allston":         {42.3543, -71.1312},
			"Brighton":        {42.3481, -71.1509},
		},
		GenderMap: map[string]float64{"Male": 0.0, "Female": 1.0, "Mixed": 0.5},
		RoomTypes: map[string]float64{"Shared": 0.0, "Private": 1.0},
		Bathrooms: map[string]float64{"No": 0.0, "Yes": 1.0},
		FoodMap:   map[string]float64{"Vegan": 0.0, "Vegetarian": 0.5, "Everything": 1.0},
		AlcoholMap: map[string]float64{
			"Never":        0.0,
			"Rarely":       0.25,
			"Occasionally": 0.5,
			"Regularly":    0.75,
			"Frequently":   1.0,
		},
		SmokeMap:   map[string]float64{"No": 0.0, "Outside Only": 0.5, "Yes": 1.0},
		UtilityCap: 4,
		Bounds: Bounds{
			LatMin:    42.25,
			LatMax:    42.45,
			LonMin:    -71.20,
			LonMax:    -71.00,
			BudgetMin: 500,
			BudgetMax: 3000,
			LeaseMin:  1,
			LeaseMax:  24,
		},
		Weights: DefaultWeights(),
		Defaults: Defaults{
			GenderPreference: "Mixed",
			RoomType:         "Shared",
			Bathroom:         "No",
			Food:             "Everything",
			Alcohol:          "Occasionally",
			Smoke:            "No",
		},
	}
}

// WithWeights returns a copy of the scheme carrying new weights and version.
// Vocabularies and bounds are shared; they are immutable after construction.
func (s *Scheme) WithWeights(version string, w CategoryWeights) *Scheme {
	cp := *s
	cp.Version = version
	cp.Weights = w
	return &cp
}

// CheckProfile verifies every categorical value present on the profile is in
// the scheme's vocabulary. It is the vocabulary check performed at ingestion;
// structural validation happens separately.
func (s *Scheme) CheckProfile(p *profile.Profile) error {
	for _, loc := range p.Locations {
		if _, ok := s.Locations[loc]; !ok {
			return &SchemaViolationError{Field: "locations", Value: loc}
		}
	}
	checks := []struct {
		field string
		value string
		vocab map[string]float64
	}{
		{"gender_preference", p.GenderPreference, s.GenderMap},
		{"room_type", p.RoomType, s.RoomTypes},
		{"bathroom", p.Bathroom, s.Bathrooms},
		{"food", p.Food, s.FoodMap},
		{"alcohol", p.Alcohol, s.AlcoholMap},
		{"smoke", p.Smoke, s.SmokeMap},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if _, ok := c.vocab[c.value]; !ok {
			return &SchemaViolationError{Field: c.field, Value: c.value}
		}
	}
	return nil
}
