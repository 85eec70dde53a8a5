// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingChecker struct {
	calls atomic.Int64
}

func (c *countingChecker) CheckLiveness() { c.calls.Add(1) }

func TestWatchdogServiceChecksPeriodically(t *testing.T) {
	checker := &countingChecker{}
	svc := NewWatchdogService(checker, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for checker.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop")
	}
	if checker.calls.Load() < 3 {
		t.Errorf("liveness checks = %d, want at least 3", checker.calls.Load())
	}
}

func TestWatchdogServiceDefaultInterval(t *testing.T) {
	svc := NewWatchdogService(&countingChecker{}, 0)
	if svc.interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s", svc.interval)
	}
	if svc.String() != "liveness-watchdog" {
		t.Errorf("String() = %q", svc.String())
	}
}
