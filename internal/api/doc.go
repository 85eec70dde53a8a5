// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// Package api provides the HTTP surface for the matching service.
//
// Routing uses Chi with a conventional middleware stack: request IDs,
// real-IP extraction, panic recovery, CORS and per-IP rate limiting.
// All payloads are JSON under /api/v1:
//
//	POST   /api/v1/profiles            register or update a profile
//	GET    /api/v1/profiles            list profiles (kind filter)
//	GET    /api/v1/profiles/{id}       fetch one profile
//	DELETE /api/v1/profiles/{id}       remove a profile
//	POST   /api/v1/match               rank candidates for a profile
//	POST   /api/v1/match/feedback      record an accepted match
//	GET    /api/v1/models              list model versions
//	GET    /api/v1/models/production   current production model
//	GET    /api/v1/models/{id}         fetch one model version
//	GET    /api/v1/reports/drift       recent drift reports
//	GET    /api/v1/reports/bias        recent bias reports
//	GET    /api/v1/pipeline            orchestrator state
//	POST   /api/v1/pipeline/failure    external failure signal
//
// Liveness and readiness live under /api/v1/health; Prometheus metrics
// are exposed on /metrics. Error responses carry a stable machine code
// (NOT_FOUND, INVALID_PROFILE, INVALID_FILTER, MODEL_UNAVAILABLE) next
// to the human-readable message.
package api
