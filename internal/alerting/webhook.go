// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package alerting

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
)

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	// URL receives each event as an HTTP POST with a JSON body.
	URL string

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration

	// BreakerMaxFailures consecutive failures open the circuit.
	BreakerMaxFailures uint32

	// BreakerInterval is the closed-state counter reset period.
	BreakerInterval time.Duration

	// BreakerTimeout is how long the circuit stays open before a probe.
	BreakerTimeout time.Duration
}

// webhookPayload is the wire format delivered to the endpoint.
type webhookPayload struct {
	Topic string             `json:"topic"`
	Event orchestrator.Event `json:"event"`
}

// WebhookNotifier POSTs events to an operator endpoint. Deliveries run
// through a circuit breaker so a dead or slow endpoint fails fast instead
// of stalling the event loop for its full timeout on every event.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWebhookNotifier(cfg WebhookConfig, logger zerolog.Logger) *WebhookNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}

	log := logger.With().Str("component", "alerting").Str("notifier", "webhook").Logger()

	settings := gobreaker.Settings{
		Name:     "alert-webhook",
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("webhook circuit state change")
		},
	}

	return &WebhookNotifier{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  log,
	}
}

// Name implements Notifier.
func (n *WebhookNotifier) Name() string { return "webhook" }

// Notify implements Notifier. A non-2xx response counts as a delivery
// failure toward the circuit breaker.
func (n *WebhookNotifier) Notify(ctx context.Context, topic string, ev orchestrator.Event) error {
	body, err := json.Marshal(webhookPayload{Topic: topic, Event: ev})
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	_, err = n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.post(ctx, body)
	})
	return err
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}
