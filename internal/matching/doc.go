// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package matching ranks candidate profiles against a query profile.
//
// Hard filters run before any similarity computation, so a filtered-out
// candidate never appears in results regardless of score, and an empty
// filtered set returns an empty ranking rather than falling back to
// unfiltered candidates. Scoring is cosine similarity between feature
// vectors produced under the production scheme; ties break by candidate
// update recency, then profile ID.
//
// The production model and scheme live in an immutable Snapshot behind an
// atomic pointer. Promotion swaps the pointer; in-flight rankings finish
// against the snapshot they loaded.
package matching
