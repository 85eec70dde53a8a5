// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

// This file maps domain errors onto HTTP status codes and machine codes.
package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Samhita-kolluri/homiehub-23/internal/matching"
	"github.com/Samhita-kolluri/homiehub-23/internal/modelstore"
	"github.com/Samhita-kolluri/homiehub-23/internal/registry"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// respondDomainError translates a domain error into the HTTP response.
// Unknown errors become opaque 500s; the detail stays in the log.
func respondDomainError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondError(w, http.StatusUnprocessableEntity, "INVALID_PROFILE", err.Error(), nil)
	case registry.IsNotFound(err):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, modelstore.ErrModelNotFound),
		errors.Is(err, modelstore.ErrReportNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, modelstore.ErrNoProduction):
		respondError(w, http.StatusNotFound, "NO_PRODUCTION_MODEL", err.Error(), nil)
	case vectorize.IsSchemaViolation(err), vectorize.IsIncompleteProfile(err):
		respondError(w, http.StatusUnprocessableEntity, "INVALID_PROFILE", err.Error(), nil)
	case matching.IsInvalidFilter(err):
		respondError(w, http.StatusUnprocessableEntity, "INVALID_FILTER", err.Error(), nil)
	case errors.Is(err, matching.ErrModelUnavailable):
		respondError(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", err)
	}
}
