// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package profile defines the Profile data model shared by the vectorizer,
// the ranking engine and the HTTP surface.
//
// A Profile represents either a user looking for a room or a room listing.
// Categorical fields carry values from fixed enumerated vocabularies; the
// vocabularies themselves live with the vectorization scheme so that a value
// accepted at ingestion is guaranteed to be encodable. Upstream components
// deliver schema-checked records, so this package only performs structural
// validation (required fields, ranges) via go-playground/validator.
package profile
