// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package vectorize turns profiles into fixed-dimension weighted feature
// vectors.
//
// Encoding is scheme-driven: a Scheme carries the enumerated vocabularies,
// min-max normalization bounds and per-category weights, plus a version
// string. Vectors produced under different scheme versions are never
// comparable; every consumer checks the version tag before use.
//
// Vectorize is a pure function of the profile and the scheme. Unknown
// categorical values fail with a SchemaViolationError; required fields
// missing with no configured default fail with an IncompleteProfileError.
package vectorize
