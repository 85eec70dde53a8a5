// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package alerting delivers orchestrator lifecycle events to operators.
//
// The Service subscribes to every orchestrator topic (drift detections,
// bias violations, promotions, rollbacks, pipeline failures) and fans each
// event out to the configured notifiers. Two notifiers ship by default:
//
//   - LogNotifier writes structured log lines and is always active.
//   - WebhookNotifier POSTs the event as JSON to an operator endpoint,
//     wrapped in a circuit breaker so a dead endpoint cannot pile up
//     goroutines or slow the event loop.
//
// Delivery is at-most-once per notifier. A notifier error is logged and
// dropped; alerting never feeds back into the retraining pipeline.
package alerting
