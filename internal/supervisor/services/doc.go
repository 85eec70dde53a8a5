// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package services provides suture.Service wrappers for components that
// do not natively speak the Serve(ctx) pattern.
//
// The orchestrator and the alerting consumer implement suture.Service
// themselves and are added to the tree directly. The wrappers here cover
// the remaining lifecycles:
//
//   - HTTPServerService adapts *http.Server's blocking ListenAndServe to
//     a context-aware Serve with graceful shutdown.
//   - WatchdogService runs a periodic liveness check against the
//     retraining pipeline and cancels hung cycles.
package services
