// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package supervisor provides Suture-based process supervision.
//
// The tree has two layers under the root:
//
//   - pipeline: the retraining orchestrator, its liveness watchdog and
//     the alerting consumer
//   - api: the HTTP server
//
// The split isolates failures: a crash in the retraining pipeline
// restarts that layer while the API keeps ranking against the last
// promoted snapshot.
package supervisor
