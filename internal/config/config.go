// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package config provides layered configuration via Koanf v2: built-in
// defaults, an optional YAML file, and environment variable overrides, in
// that order of precedence (env highest).
//
// Every tunable threshold in the system lives here: drift/bias/quality
// thresholds, the retraining retry bound, the candidate-pool cap and the
// scheme weights. None of them are hard-coded constants elsewhere.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the root configuration for the matching service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Store    StoreConfig    `koanf:"store"`
	Matching MatchingConfig `koanf:"matching"`
	Drift    DriftConfig    `koanf:"drift"`
	Fairness FairnessConfig `koanf:"fairness"`
	Training TrainingConfig `koanf:"training"`
	Monitor  MonitorConfig  `koanf:"monitor"`
	Alerting AlertingConfig `koanf:"alerting"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures the zerolog facade.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig configures durable model/report storage.
type StoreConfig struct {
	// Path is the BadgerDB directory. Empty selects the in-memory store
	// (tests and ephemeral deployments).
	Path string `koanf:"path"`
}

// MatchingConfig configures the ranking engine.
type MatchingConfig struct {
	// DefaultK is the result size when the request omits k.
	DefaultK int `koanf:"default_k"`

	// MaxK bounds the requested result size.
	MaxK int `koanf:"max_k"`

	// CandidatePoolCap bounds how many filtered candidates are scored per
	// request. This is the ranking latency budget: filtering is cheap,
	// scoring is not.
	CandidatePoolCap int `koanf:"candidate_pool_cap"`
}

// DriftConfig configures the drift detector.
type DriftConfig struct {
	// Bins is the number of quantile bins for the PSI computation.
	Bins int `koanf:"bins"`

	// Threshold is the aggregate PSI above which drift is detected.
	// 0.2 is the conventional "significant shift" PSI boundary.
	Threshold float64 `koanf:"threshold"`

	// MinSamples is the minimum current-window size before the detector
	// produces a verdict; smaller windows are skipped.
	MinSamples int `koanf:"min_samples"`
}

// FairnessConfig configures the fairness auditor.
type FairnessConfig struct {
	// Attributes are the sensitive attributes to slice by.
	Attributes []string `koanf:"attributes"`

	// RepresentationLow/High bound the acceptable representation ratio
	// (top-K share divided by pool share) per group.
	RepresentationLow  float64 `koanf:"representation_low"`
	RepresentationHigh float64 `koanf:"representation_high"`

	// MaxRankGap is the maximum acceptable average-rank gap between groups.
	MaxRankGap float64 `koanf:"max_rank_gap"`

	// MaxParityDifference is the maximum acceptable statistical parity
	// difference (selection-rate gap between best and worst group).
	MaxParityDifference float64 `koanf:"max_parity_difference"`

	// SampleRate bounds how many ranking responses per second are recorded
	// for out-of-band auditing.
	SampleRate float64 `koanf:"sample_rate"`

	// SampleBuffer is the size of the sampled-outcome ring.
	SampleBuffer int `koanf:"sample_buffer"`

	// MinSamples is the minimum sampled result sets before an audit runs.
	MinSamples int `koanf:"min_samples"`
}

// TrainingConfig configures the retraining pipeline.
type TrainingConfig struct {
	// MinCorpus is the minimum number of profiles required to retrain.
	MinCorpus int `koanf:"min_corpus"`

	// PrecisionK is the K used for precision@K validation.
	PrecisionK int `koanf:"precision_k"`

	// MinPrecision is the quality threshold a candidate model must meet.
	MinPrecision float64 `koanf:"min_precision"`

	// MaxRetries bounds retraining attempts per cycle before rollback.
	MaxRetries int `koanf:"max_retries"`

	// Bootstrap promotes an initial model from the default scheme when the
	// store holds no production model at startup.
	Bootstrap bool `koanf:"bootstrap"`

	// Workers is the parallelism for held-out evaluation.
	Workers int `koanf:"workers"`
}

// MonitorConfig configures the orchestrator's monitoring loop.
type MonitorConfig struct {
	// Interval between drift/fairness evaluations.
	Interval time.Duration `koanf:"interval"`

	// LivenessTimeout is how long a retraining cycle may go without a
	// heartbeat before the supervising service forces rollback.
	LivenessTimeout time.Duration `koanf:"liveness_timeout"`
}

// AlertingConfig configures the structured-event notifier.
type AlertingConfig struct {
	// WebhookURL receives orchestrator events as JSON POSTs. Empty disables
	// the webhook notifier; events still go to the log notifier.
	WebhookURL string        `koanf:"webhook_url"`
	Timeout    time.Duration `koanf:"timeout"`

	// Circuit breaker settings for the webhook.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// defaultConfig returns the built-in defaults, applied before file and env
// layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8473,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     nil,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path: "/data/homiehub",
		},
		Matching: MatchingConfig{
			DefaultK:         10,
			MaxK:             100,
			CandidatePoolCap: 1000,
		},
		Drift: DriftConfig{
			Bins:       10,
			Threshold:  0.2,
			MinSamples: 20,
		},
		Fairness: FairnessConfig{
			Attributes:          []string{"gender", "location"},
			RepresentationLow:   0.5,
			RepresentationHigh:  2.0,
			MaxRankGap:          3.0,
			MaxParityDifference: 0.25,
			SampleRate:          5,
			SampleBuffer:        512,
			MinSamples:          10,
		},
		Training: TrainingConfig{
			MinCorpus:    20,
			PrecisionK:   5,
			MinPrecision: 0.5,
			MaxRetries:   2,
			Bootstrap:    true,
			Workers:      4,
		},
		Monitor: MonitorConfig{
			Interval:        time.Minute,
			LivenessTimeout: 10 * time.Minute,
		},
		Alerting: AlertingConfig{
			WebhookURL:         "",
			Timeout:            10 * time.Second,
			BreakerMaxFailures: 5,
			BreakerInterval:    time.Minute,
			BreakerTimeout:     2 * time.Minute,
		},
	}
}

// Validate checks cross-field constraints the koanf layers cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Matching.DefaultK <= 0 {
		errs = append(errs, errors.New("matching.default_k must be positive"))
	}
	if c.Matching.MaxK < c.Matching.DefaultK {
		errs = append(errs, errors.New("matching.max_k must be >= matching.default_k"))
	}
	if c.Matching.CandidatePoolCap <= 0 {
		errs = append(errs, errors.New("matching.candidate_pool_cap must be positive"))
	}
	if c.Drift.Bins < 2 {
		errs = append(errs, errors.New("drift.bins must be at least 2"))
	}
	if c.Drift.Threshold <= 0 {
		errs = append(errs, errors.New("drift.threshold must be positive"))
	}
	if c.Fairness.RepresentationLow <= 0 || c.Fairness.RepresentationLow >= 1 {
		errs = append(errs, errors.New("fairness.representation_low must be in (0,1)"))
	}
	if c.Fairness.RepresentationHigh <= 1 {
		errs = append(errs, errors.New("fairness.representation_high must be > 1"))
	}
	if c.Fairness.MaxParityDifference <= 0 || c.Fairness.MaxParityDifference > 1 {
		errs = append(errs, errors.New("fairness.max_parity_difference must be in (0,1]"))
	}
	if c.Training.MaxRetries < 0 {
		errs = append(errs, errors.New("training.max_retries must be non-negative"))
	}
	if c.Training.MinPrecision < 0 || c.Training.MinPrecision > 1 {
		errs = append(errs, errors.New("training.min_precision must be in [0,1]"))
	}
	if c.Monitor.Interval <= 0 {
		errs = append(errs, errors.New("monitor.interval must be positive"))
	}

	return errors.Join(errs...)
}
