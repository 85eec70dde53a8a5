// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package alerting

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
)

// Service consumes orchestrator events and fans them out to notifiers.
// It implements suture.Service.
type Service struct {
	subscriber message.Subscriber
	notifiers  []Notifier
	logger     zerolog.Logger
}

// NewService creates the alerting service. Notifiers run in registration
// order per event.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(subscriber message.Subscriber, notifiers []Notifier, logger zerolog.Logger) *Service {
	return &Service{
		subscriber: subscriber,
		notifiers:  notifiers,
		logger:     logger.With().Str("component", "alerting").Logger(),
	}
}

// Serve subscribes to every orchestrator topic and dispatches events until
// the context is canceled. Messages are acked regardless of notifier
// outcome; alert delivery is at-most-once.
func (s *Service) Serve(ctx context.Context) error {
	var wg sync.WaitGroup

	for _, topic := range orchestrator.Topics() {
		msgs, err := s.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		wg.Add(1)
		go func(topic string, msgs <-chan *message.Message) {
			defer wg.Done()
			s.consume(ctx, topic, msgs)
		}(topic, msgs)
	}

	wg.Wait()
	return ctx.Err()
}

func (s *Service) consume(ctx context.Context, topic string, msgs <-chan *message.Message) {
	for msg := range msgs {
		ev, err := orchestrator.DecodeEvent(msg)
		if err != nil {
			s.logger.Error().Err(err).Str("topic", topic).Msg("decode event")
			msg.Ack()
			continue
		}
		s.dispatch(ctx, topic, ev)
		msg.Ack()
	}
}

func (s *Service) dispatch(ctx context.Context, topic string, ev orchestrator.Event) {
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, topic, ev); err != nil {
			s.logger.Error().
				Err(err).
				Str("notifier", n.Name()).
				Str("topic", topic).
				Msg("alert delivery failed")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *Service) String() string { return "alerting" }
