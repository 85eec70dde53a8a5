// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package fairness

import (
	"sync"

	"golang.org/x/time/rate"
)

// Sampler records a bounded, rate-limited sample of ranking outcomes for
// out-of-band auditing. It sits on the synchronous ranking path, so it
// must stay cheap and never block: a token-bucket limiter decides
// admission and a fixed-size ring overwrites the oldest entry. Callers
// check Admit before assembling an outcome so that rejected samples cost
// nothing to build.
type Sampler struct {
	mu      sync.Mutex
	ring    []Outcome
	next    int
	filled  bool
	limiter *rate.Limiter
}

// NewSampler creates a sampler admitting at most ratePerSec outcomes per
// second into a ring of the given size.
func NewSampler(ratePerSec float64, size int) *Sampler {
	if size <= 0 {
		size = 256
	}
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &Sampler{
		ring:    make([]Outcome, size),
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// Admit consumes a limiter token and reports whether the caller should
// build and Record an outcome. It never blocks.
func (s *Sampler) Admit() bool {
	return s.limiter.Allow()
}

// Record stores the outcome unconditionally. Callers gate it with Admit.
func (s *Sampler) Record(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = outcome
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.filled = true
	}
}

// Snapshot returns the currently sampled outcomes, oldest first.
func (s *Sampler) Snapshot() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filled {
		out := make([]Outcome, s.next)
		copy(out, s.ring[:s.next])
		return out
	}
	out := make([]Outcome, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	out = append(out, s.ring[:s.next]...)
	return out
}

// Len returns the number of sampled outcomes currently held.
func (s *Sampler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filled {
		return len(s.ring)
	}
	return s.next
}

// Reset discards all sampled outcomes. Called after each audit so every
// report covers a fresh window.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
	s.filled = false
}
