// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package metrics defines the Prometheus instruments for the matching
// engine: ranking latency and outcomes, drift scores, fairness audit
// verdicts and retraining cycle outcomes. Instruments are package-level
// promauto vars registered on the default registry and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking path.

	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total ranking requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "invalid_filter", "model_unavailable", "error"
	)

	MatchRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_request_duration_seconds",
			Help:    "Ranking request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	MatchCandidatesFiltered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_candidates_after_filter",
			Help:    "Candidate pool size remaining after hard filters",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Drift monitoring.

	DriftFeatureScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drift_feature_psi",
			Help: "Per-feature population stability index against the production baseline",
		},
		[]string{"feature"},
	)

	DriftAggregateScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drift_aggregate_psi",
			Help: "Aggregate drift score (max per-feature PSI)",
		},
	)

	DriftChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drift_checks_total",
			Help: "Drift detector runs by verdict",
		},
		[]string{"verdict"}, // "stable", "drift"
	)

	// Fairness auditing.

	BiasAuditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bias_audits_total",
			Help: "Fairness audits by verdict",
		},
		[]string{"verdict"}, // "pass", "fail"
	)

	BiasParityDifference = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bias_statistical_parity_difference",
			Help: "Statistical parity difference from the most recent audit",
		},
		[]string{"attribute"},
	)

	// Retraining orchestration.

	RetrainingCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retraining_cycles_total",
			Help: "Completed retraining cycles by outcome",
		},
		[]string{"outcome"}, // "promoted", "rolled_back"
	)

	OrchestratorState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orchestrator_state",
			Help: "Current orchestrator state (0=monitoring 1=triggered 2=retraining 3=validating 4=promoted 5=rolled_back)",
		},
	)

	ProfilesRegistered = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "profiles_registered",
			Help: "Profiles currently held in the registry",
		},
		[]string{"kind"},
	)
)
