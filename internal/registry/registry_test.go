// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package registry

import (
	"testing"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

func room(id, location string, rent float64) *profile.Profile {
	return &profile.Profile{
		ID:          id,
		Kind:        profile.KindRoom,
		Locations:   []string{location},
		Budget:      rent,
		LeaseMonths: 12,
	}
}

func TestUpsertAndGet(t *testing.T) {
	r := New()
	s := vectorize.DefaultScheme()

	if err := r.Upsert(room("r-1", "Cambridge", 1200), s); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := r.Get("r-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Locations[0] != "Cambridge" {
		t.Errorf("Get() location = %q", got.Locations[0])
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped on upsert")
	}

	vec, err := r.Vector("r-1")
	if err != nil {
		t.Fatalf("Vector() error = %v", err)
	}
	if len(vec.Values) != vectorize.Dim {
		t.Errorf("vector dim = %d, want %d", len(vec.Values), vectorize.Dim)
	}
}

func TestUpsertRejectsUnknownVocabulary(t *testing.T) {
	r := New()
	s := vectorize.DefaultScheme()

	bad := room("r-2", "Atlantis", 1200)
	err := r.Upsert(bad, s)
	if !vectorize.IsSchemaViolation(err) {
		t.Errorf("Upsert() error = %v, want SchemaViolationError", err)
	}
	if _, err := r.Get("r-2"); !IsNotFound(err) {
		t.Error("rejected profile must not be stored")
	}
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	r := New()
	s := vectorize.DefaultScheme()

	if err := r.Upsert(room("r-1", "Fenway", 1000), s); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	first, _ := r.Get("r-1")

	if err := r.Upsert(room("r-1", "Fenway", 1100), s); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	second, _ := r.Get("r-1")

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
	if second.Budget != 1100 {
		t.Errorf("Budget = %v after update", second.Budget)
	}
}

func TestRoomsOrderedByID(t *testing.T) {
	r := New()
	s := vectorize.DefaultScheme()

	for _, id := range []string{"r-3", "r-1", "r-2"} {
		if err := r.Upsert(room(id, "Allston", 900), s); err != nil {
			t.Fatalf("Upsert(%s) error = %v", id, err)
		}
	}

	rooms := r.Rooms()
	if len(rooms) != 3 {
		t.Fatalf("len(Rooms()) = %d", len(rooms))
	}
	for i, want := range []string{"r-1", "r-2", "r-3"} {
		if rooms[i].ID != want {
			t.Errorf("Rooms()[%d].ID = %q, want %q", i, rooms[i].ID, want)
		}
	}
}

func TestRevectorize(t *testing.T) {
	r := New()
	s := vectorize.DefaultScheme()

	if err := r.Upsert(room("r-1", "Brighton", 1500), s); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	before, _ := r.Vector("r-1")

	w := vectorize.DefaultWeights()
	w.Budget = 6.0
	s2 := s.WithWeights("v2", w)

	if errs := r.Revectorize(s2); len(errs) != 0 {
		t.Fatalf("Revectorize() errors = %v", errs)
	}

	after, _ := r.Vector("r-1")
	if after.SchemeVersion != "v2" {
		t.Errorf("SchemeVersion = %q, want v2", after.SchemeVersion)
	}
	if after.Values[vectorize.FeatBudget] == before.Values[vectorize.FeatBudget] {
		t.Error("budget feature unchanged after weight change")
	}
}

func TestDelete(t *testing.T) {
	r := New()
	s := vectorize.DefaultScheme()

	if err := r.Upsert(room("r-1", "Roxbury", 800), s); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	r.Delete("r-1")
	if _, err := r.Get("r-1"); !IsNotFound(err) {
		t.Error("profile still present after Delete()")
	}
	r.Delete("r-1") // no-op
}
