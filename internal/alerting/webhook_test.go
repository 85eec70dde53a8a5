// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package alerting

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
)

func TestWebhookNotifierDelivers(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		got.Store(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(WebhookConfig{URL: srv.URL, Timeout: time.Second}, zerolog.Nop())

	ev := orchestrator.Event{
		Metric:     "aggregate_psi",
		Threshold:  0.2,
		Observed:   0.41,
		ModelID:    "m-1",
		OccurredAt: time.Now().UTC(),
	}
	if err := n.Notify(context.Background(), orchestrator.TopicDriftDetected, ev); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	raw, ok := got.Load().([]byte)
	if !ok {
		t.Fatal("no request received")
	}
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Topic != orchestrator.TopicDriftDetected {
		t.Errorf("topic = %q, want %q", payload.Topic, orchestrator.TopicDriftDetected)
	}
	if payload.Event.Metric != "aggregate_psi" || payload.Event.Observed != 0.41 {
		t.Errorf("event = %+v", payload.Event)
	}
}

func TestWebhookNotifierNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(WebhookConfig{URL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	if err := n.Notify(context.Background(), orchestrator.TopicModelPromoted, orchestrator.Event{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestWebhookNotifierBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(WebhookConfig{
		URL:                srv.URL,
		Timeout:            time.Second,
		BreakerMaxFailures: 2,
		BreakerTimeout:     time.Minute,
	}, zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := n.Notify(ctx, orchestrator.TopicPipelineFailure, orchestrator.Event{}); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}

	// After two consecutive failures the breaker is open, so later
	// attempts never reach the endpoint.
	if got := hits.Load(); got != 2 {
		t.Errorf("endpoint hits = %d, want 2", got)
	}
	if err := n.Notify(ctx, orchestrator.TopicPipelineFailure, orchestrator.Event{}); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want %v", err, gobreaker.ErrOpenState)
	}
}
