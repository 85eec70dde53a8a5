// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package services

import (
	"context"
	"time"
)

// LivenessChecker is the pipeline surface the watchdog polls. Satisfied
// by *orchestrator.Orchestrator.
type LivenessChecker interface {
	// CheckLiveness cancels the active retraining cycle when it has gone
	// too long without a heartbeat.
	CheckLiveness()
}

// WatchdogService periodically checks retraining pipeline liveness. A
// hung cycle is canceled by the checker; the watchdog itself never fails.
type WatchdogService struct {
	checker  LivenessChecker
	interval time.Duration
	name     string
}

// NewWatchdogService creates the watchdog. The interval should be well
// below the pipeline's liveness timeout so a hang is caught promptly.
func NewWatchdogService(checker LivenessChecker, interval time.Duration) *WatchdogService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &WatchdogService{
		checker:  checker,
		interval: interval,
		name:     "liveness-watchdog",
	}
}

// Serve implements suture.Service.
func (w *WatchdogService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.checker.CheckLiveness()
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (w *WatchdogService) String() string {
	return w.name
}
