// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package alerting

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
)

type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
	events []orchestrator.Event
	fail   bool
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, topic string, ev orchestrator.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topics = append(n.topics, topic)
	n.events = append(n.events, ev)
	if n.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (n *recordingNotifier) received() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.topics...)
}

func waitForTopics(t *testing.T, n *recordingNotifier, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got := n.received()
		if len(got) >= want {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications, got %v", want, n.received())
	return nil
}

func TestServiceDispatchesEveryTopic(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	rec := &recordingNotifier{}
	svc := NewService(pubsub, []Notifier{rec}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the subscriptions a moment to register before publishing.
	time.Sleep(20 * time.Millisecond)

	bus := orchestrator.NewBus(pubsub, zerolog.Nop())
	for _, topic := range orchestrator.Topics() {
		bus.Publish(topic, orchestrator.Event{Metric: "m", Detail: topic})
	}

	got := waitForTopics(t, rec, len(orchestrator.Topics()))

	seen := make(map[string]bool, len(got))
	for _, topic := range got {
		seen[topic] = true
	}
	for _, topic := range orchestrator.Topics() {
		if !seen[topic] {
			t.Errorf("topic %q never delivered", topic)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && err != context.Canceled {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}

func TestServiceNotifierFailureDoesNotStopDelivery(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	failing := &recordingNotifier{fail: true}
	healthy := &recordingNotifier{}
	svc := NewService(pubsub, []Notifier{failing, healthy}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()
	time.Sleep(20 * time.Millisecond)

	bus := orchestrator.NewBus(pubsub, zerolog.Nop())
	bus.Publish(orchestrator.TopicModelPromoted, orchestrator.Event{ModelID: "m-1"})
	bus.Publish(orchestrator.TopicModelRolledBack, orchestrator.Event{ModelID: "m-1"})

	waitForTopics(t, healthy, 2)
	waitForTopics(t, failing, 2)
}
