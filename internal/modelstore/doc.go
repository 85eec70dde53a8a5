// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package modelstore persists model versions, the production pointer, the
// drift baseline, and audit reports in BadgerDB.
//
// Key layout:
//
//	model:<id>        versioned model records
//	production        singleton pointing at the production model ID
//	baseline:current  singleton holding the drift baseline window
//	biasreport:<id>   fairness audit reports
//	driftreport:<id>  drift detection reports
//
// The production pointer only ever moves inside a single transaction that
// also demotes the previous production model, so readers never observe a
// state with two production models or none after bootstrap.
package modelstore
