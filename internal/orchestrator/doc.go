// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package orchestrator runs the retraining state machine.
//
// The orchestrator monitors drift and fairness on an interval. Any trigger
// (drift, bias violation, external pipeline failure) starts one retraining
// cycle: train a candidate on the live corpus, validate it against quality
// and fairness thresholds, then either promote it atomically or roll back
// to the serving model. Triggers arriving during a cycle are queued and
// coalesced into a single followup cycle, never dropped.
//
// State transitions:
//
//	MONITORING -> TRIGGERED -> RETRAINING -> VALIDATING -> PROMOTED    -> MONITORING
//	                                                    -> ROLLED_BACK -> MONITORING
//
// Unexpected errors during retraining or validation are retried a bounded
// number of times, then force ROLLED_BACK; the previous production model
// keeps serving throughout. Promotion swaps the engine snapshot, moves the
// store's production pointer, replaces the drift baseline and re-vectorizes
// the registry, in that order.
package orchestrator
