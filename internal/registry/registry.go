// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package registry holds the live set of validated profiles and their
// current feature vectors.
//
// The registry is the candidate source for the ranking engine and the vector
// window source for the drift detector. Vectors are recomputed on upsert
// under the scheme passed by the caller (the production scheme), and
// re-vectorized in bulk when a new model version is promoted.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// ErrNotFound is returned when a profile ID is unknown.
type notFoundError struct{ id string }

func (e *notFoundError) Error() string { return "profile not found: " + e.id }

// IsNotFound reports whether err indicates an unknown profile.
func IsNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

// NotFound constructs a not-found error for the given profile ID.
func NotFound(id string) error { return &notFoundError{id: id} }

type entry struct {
	profile *profile.Profile
	vector  vectorize.FeatureVector
}

// Registry is a concurrent in-memory store of profiles and their vectors.
// It is safe for concurrent use by the ranking path, the ingestion path and
// the drift monitoring loop.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Upsert validates the profile against the scheme vocabulary, vectorizes it
// and stores both. UpdatedAt is stamped here; CreatedAt is preserved for
// existing profiles.
func (r *Registry) Upsert(p *profile.Profile, s *vectorize.Scheme) error {
	if err := profile.ValidateStruct(p); err != nil {
		return err
	}
	if err := s.CheckProfile(p); err != nil {
		return err
	}

	cp := p.Clone()
	now := time.Now().UTC()
	cp.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[cp.ID]; ok {
		cp.CreatedAt = prev.profile.CreatedAt
	} else {
		cp.CreatedAt = now
	}

	vec, err := vectorize.Vectorize(cp, s)
	if err != nil {
		return err
	}

	r.entries[cp.ID] = entry{profile: cp, vector: vec}
	return nil
}

// Get returns the profile for an ID.
func (r *Registry) Get(id string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, NotFound(id)
	}
	return e.profile.Clone(), nil
}

// Vector returns the current feature vector for an ID.
func (r *Registry) Vector(id string) (vectorize.FeatureVector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return vectorize.FeatureVector{}, NotFound(id)
	}
	return e.vector.Clone(), nil
}

// Delete removes a profile. Deleting an unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Rooms returns all room profiles, ordered by ID for determinism.
func (r *Registry) Rooms() []*profile.Profile {
	return r.byKind(profile.KindRoom)
}

// Users returns all user profiles, ordered by ID for determinism.
func (r *Registry) Users() []*profile.Profile {
	return r.byKind(profile.KindUser)
}

func (r *Registry) byKind(kind profile.Kind) []*profile.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*profile.Profile, 0, len(r.entries))
	for _, e := range r.entries {
		if e.profile.Kind == kind {
			out = append(out, e.profile.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every profile, ordered by ID. Used as the retraining corpus.
func (r *Registry) All() []*profile.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*profile.Profile, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.profile.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Entry pairs a profile with its current feature vector.
type Entry struct {
	Profile *profile.Profile
	Vector  vectorize.FeatureVector
}

// Entries returns profile and vector pairs for all profiles of a kind,
// ordered by profile ID. This is the ranking engine's candidate pool.
func (r *Registry) Entries(kind profile.Kind) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.profile.Kind == kind {
			out = append(out, Entry{Profile: e.profile.Clone(), Vector: e.vector.Clone()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Profile.ID < out[j].Profile.ID })
	return out
}

// Vectors returns the current vectors for all profiles of a kind, ordered by
// profile ID. This is the drift detector's current window.
func (r *Registry) Vectors(kind profile.Kind) []vectorize.FeatureVector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]vectorize.FeatureVector, 0, len(r.entries))
	for _, e := range r.entries {
		if e.profile.Kind == kind {
			out = append(out, e.vector.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProfileID < out[j].ProfileID })
	return out
}

// Revectorize recomputes every stored vector under a new scheme. Called once
// per promotion, after the production snapshot swap. Profiles that no longer
// vectorize (vocabulary shrank) are reported and left with their previous
// vector so in-flight rankings stay consistent.
func (r *Registry) Revectorize(s *vectorize.Scheme) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, e := range r.entries {
		vec, err := vectorize.Vectorize(e.profile, s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r.entries[id] = entry{profile: e.profile, vector: vec}
	}
	return errs
}

// Len returns the number of stored profiles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
