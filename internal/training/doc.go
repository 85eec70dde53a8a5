// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package training derives candidate model versions from the live profile
// corpus and evaluates them against historical accepted matches.
//
// Weight derivation is deterministic: category weights follow the spread of
// each feature across the corpus, so features that actually discriminate
// between profiles carry more weight. The same corpus always produces the
// same weights. Evaluation runs the real ranking engine under the candidate
// scheme and measures precision@K against matches users accepted in the
// past.
package training
