// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package drift compares the current feature vector distribution against
// the baseline captured when the production model was promoted.
//
// The detector computes a per-feature population stability index (PSI) over
// quantile bins derived from the baseline. The aggregate drift score is the
// maximum per-feature PSI, not the average: a single severely drifted
// feature must not be diluted by many stable ones. The baseline is replaced
// atomically at promotion and never updated in place.
package drift
