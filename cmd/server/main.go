// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package main is the entry point for the HomieHub matching server.
//
// HomieHub matches users looking for rooms with room listings over an
// 11-dimension preference vector, continuously audited for drift and
// bias with automatic retraining.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (defaults, file, env)
//  2. Model store: BadgerDB persistence for models, baselines, reports
//  3. Registry and matching engine: the in-memory candidate pool
//  4. Monitoring: drift detector, fairness auditor, outcome sampler
//  5. Retraining pipeline: trainer, event bus, orchestrator
//  6. HTTP API: Chi router under supervision
//
// All long-running components run inside a Suture supervisor tree and
// shut down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Samhita-kolluri/homiehub-23/internal/alerting"
	"github.com/Samhita-kolluri/homiehub-23/internal/api"
	"github.com/Samhita-kolluri/homiehub-23/internal/config"
	"github.com/Samhita-kolluri/homiehub-23/internal/drift"
	"github.com/Samhita-kolluri/homiehub-23/internal/fairness"
	"github.com/Samhita-kolluri/homiehub-23/internal/logging"
	"github.com/Samhita-kolluri/homiehub-23/internal/matching"
	"github.com/Samhita-kolluri/homiehub-23/internal/modelstore"
	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
	"github.com/Samhita-kolluri/homiehub-23/internal/registry"
	"github.com/Samhita-kolluri/homiehub-23/internal/supervisor"
	"github.com/Samhita-kolluri/homiehub-23/internal/supervisor/services"
	"github.com/Samhita-kolluri/homiehub-23/internal/training"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Int("port", cfg.Server.Port).
		Msg("Starting HomieHub matching server")

	store, err := modelstore.Open(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open model store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model store")
		}
	}()

	reg := registry.New()
	engine := matching.NewEngine(matching.Config{
		DefaultK:         cfg.Matching.DefaultK,
		MaxK:             cfg.Matching.MaxK,
		CandidatePoolCap: cfg.Matching.CandidatePoolCap,
	}, reg, logger)

	detector := drift.NewDetector(drift.Config{
		Bins:       cfg.Drift.Bins,
		Threshold:  cfg.Drift.Threshold,
		MinSamples: cfg.Drift.MinSamples,
	}, logger)

	auditor := fairness.NewAuditor(fairness.Thresholds{
		RepresentationLow:   cfg.Fairness.RepresentationLow,
		RepresentationHigh:  cfg.Fairness.RepresentationHigh,
		MaxRankGap:          cfg.Fairness.MaxRankGap,
		MaxParityDifference: cfg.Fairness.MaxParityDifference,
	}, logger)
	sampler := fairness.NewSampler(cfg.Fairness.SampleRate, cfg.Fairness.SampleBuffer)

	trainer := training.NewTrainer(training.Config{
		MinCorpus:    cfg.Training.MinCorpus,
		PrecisionK:   cfg.Training.PrecisionK,
		MinPrecision: cfg.Training.MinPrecision,
		Workers:      cfg.Training.Workers,
	}, logger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, logging.NewWatermillAdapter())
	defer func() {
		if err := pubsub.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	orch := orchestrator.New(orchestrator.Config{
		Interval:        cfg.Monitor.Interval,
		LivenessTimeout: cfg.Monitor.LivenessTimeout,
		MaxRetries:      cfg.Training.MaxRetries,
		MinAuditSamples: cfg.Fairness.MinSamples,
		Bootstrap:       cfg.Training.Bootstrap,
	}, orchestrator.Deps{
		Registry:   reg,
		Engine:     engine,
		Detector:   detector,
		Auditor:    auditor,
		Sampler:    sampler,
		Attributes: sensitiveAttributes(reg, cfg.Fairness.Attributes),
		Trainer:    trainer,
		Store:      store,
		Bus:        orchestrator.NewBus(pubsub, logger),
	}, logger)

	notifiers := []alerting.Notifier{alerting.NewLogNotifier(logger)}
	if cfg.Alerting.WebhookURL != "" {
		notifiers = append(notifiers, alerting.NewWebhookNotifier(alerting.WebhookConfig{
			URL:                cfg.Alerting.WebhookURL,
			Timeout:            cfg.Alerting.Timeout,
			BreakerMaxFailures: cfg.Alerting.BreakerMaxFailures,
			BreakerInterval:    cfg.Alerting.BreakerInterval,
			BreakerTimeout:     cfg.Alerting.BreakerTimeout,
		}, logger))
	}
	alerts := alerting.NewService(pubsub, notifiers, logger)

	handler := api.NewHandler(reg, engine, store, orch, sampler, logger)
	router := api.NewRouter(api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	}, handler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.Slog(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddPipelineService(orch)
	tree.AddPipelineService(alerts)
	tree.AddPipelineService(services.NewWatchdogService(orch, cfg.Monitor.Interval))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, supervisor.DefaultTreeConfig().ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", httpServer.Addr).Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("Shutdown complete")
}

// sensitiveAttributes resolves the configured attribute names against the
// live registry. Unknown names are kept; they resolve to no group and the
// auditor skips them.
func sensitiveAttributes(reg *registry.Registry, names []string) []fairness.Attribute {
	attrs := make([]fairness.Attribute, 0, len(names))
	for _, name := range names {
		name := name
		attrs = append(attrs, fairness.Attribute{
			Name: name,
			GroupOf: func(id string) (string, bool) {
				p, err := reg.Get(id)
				if err != nil {
					return "", false
				}
				return p.Attribute(name)
			},
		})
	}
	return attrs
}
