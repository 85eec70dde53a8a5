// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package orchestrator

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Event topics consumed by the alerting service and any external
// subscriber.
const (
	TopicDriftDetected   = "drift_detected"
	TopicBiasViolation   = "bias_violation"
	TopicModelPromoted   = "model_promoted"
	TopicModelRolledBack = "model_rolled_back"
	TopicPipelineFailure = "pipeline_failure"
)

// Topics lists every topic the orchestrator publishes on.
func Topics() []string {
	return []string{
		TopicDriftDetected,
		TopicBiasViolation,
		TopicModelPromoted,
		TopicModelRolledBack,
		TopicPipelineFailure,
	}
}

// Event is the structured payload published on every topic: the metric
// that moved, its threshold, the observed value and the model involved.
type Event struct {
	Metric     string    `json:"metric,omitempty"`
	Threshold  float64   `json:"threshold,omitempty"`
	Observed   float64   `json:"observed,omitempty"`
	ModelID    string    `json:"model_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Bus publishes orchestrator events. Publish failures are logged and
// swallowed: alert delivery must never abort a retraining cycle or block
// the monitoring loop.
type Bus struct {
	publisher message.Publisher
	logger    zerolog.Logger
}

// NewBus wraps a watermill publisher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(publisher message.Publisher, logger zerolog.Logger) *Bus {
	return &Bus{
		publisher: publisher,
		logger:    logger.With().Str("component", "events").Logger(),
	}
}

// Publish emits one event on a topic.
func (b *Bus) Publish(topic string, ev Event) {
	if b == nil || b.publisher == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error().Err(err).Str("topic", topic).Msg("marshal event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	if ev.ModelID != "" {
		msg.Metadata.Set("model_id", ev.ModelID)
	}

	if err := b.publisher.Publish(topic, msg); err != nil {
		b.logger.Error().Err(err).Str("topic", topic).Msg("publish event")
		return
	}
	b.logger.Debug().Str("topic", topic).Str("metric", ev.Metric).Msg("event published")
}

// DecodeEvent unmarshals an event payload from a message.
func DecodeEvent(msg *message.Message) (Event, error) {
	var ev Event
	err := json.Unmarshal(msg.Payload, &ev)
	return ev, err
}
