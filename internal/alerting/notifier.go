// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package alerting

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
)

// Notifier delivers a single orchestrator event to one destination.
type Notifier interface {
	// Notify delivers the event. Implementations must respect ctx and
	// return promptly on cancellation.
	Notify(ctx context.Context, topic string, ev orchestrator.Event) error

	// Name identifies the notifier in logs and metrics.
	Name() string
}

// LogNotifier writes events as structured log lines. It never fails and
// serves as the baseline delivery path when no webhook is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alerting").Logger()}
}

// Name implements Notifier.
func (n *LogNotifier) Name() string { return "log" }

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, topic string, ev orchestrator.Event) error {
	evt := n.logger.Warn().Str("topic", topic)
	if ev.Metric != "" {
		evt = evt.Str("metric", ev.Metric).
			Float64("threshold", ev.Threshold).
			Float64("observed", ev.Observed)
	}
	if ev.ModelID != "" {
		evt = evt.Str("model_id", ev.ModelID)
	}
	if ev.Detail != "" {
		evt = evt.Str("detail", ev.Detail)
	}
	evt.Time("occurred_at", ev.OccurredAt).Msg("pipeline alert")
	return nil
}
