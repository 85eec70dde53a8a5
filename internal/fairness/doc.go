// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package fairness audits ranking output for representation imbalance
// across sensitive attributes.
//
// The auditor consumes sampled ranking result sets and computes, per
// attribute group:
//
//   - representation balance: the group's share of top-K slots divided by
//     its share of the filtered candidate pool
//   - ranking parity: the gap in average rank position between groups
//   - statistical parity difference: the gap in selection rate between the
//     most- and least-selected group
//
// Audits run out-of-band on sampled traffic; a failing BiasReport is a
// structured signal for the retraining orchestrator and never interrupts
// the live ranking path.
//
// This package intentionally has no dependencies on other internal packages;
// callers adapt their match output to Outcome values.
package fairness
