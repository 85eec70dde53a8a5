// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package modelstore

import (
	"context"

	"github.com/Samhita-kolluri/homiehub-23/internal/drift"
	"github.com/Samhita-kolluri/homiehub-23/internal/fairness"
)

// Store persists model versions, the production pointer, the drift
// baseline, and audit reports.
type Store interface {
	// SaveModel creates or overwrites a model record.
	SaveModel(ctx context.Context, m *ModelVersion) error

	// GetModel retrieves a model by ID, returning ErrModelNotFound when
	// absent.
	GetModel(ctx context.Context, id string) (*ModelVersion, error)

	// ListModels returns all models newest-first.
	ListModels(ctx context.Context) ([]*ModelVersion, error)

	// Production returns the model the production pointer names, or
	// ErrNoProduction before bootstrap.
	Production(ctx context.Context) (*ModelVersion, error)

	// SetProduction atomically promotes the named model and retires the
	// previous production model in the same transaction. The model must
	// be in the validated state.
	SetProduction(ctx context.Context, id string) (*ModelVersion, error)

	// SaveBaseline replaces the drift baseline.
	SaveBaseline(ctx context.Context, b *Baseline) error

	// GetBaseline returns the current drift baseline, or ErrNoBaseline.
	GetBaseline(ctx context.Context) (*Baseline, error)

	// SaveBiasReport persists a fairness audit report.
	SaveBiasReport(ctx context.Context, r *fairness.BiasReport) error

	// GetBiasReport retrieves a bias report by ID.
	GetBiasReport(ctx context.Context, id string) (*fairness.BiasReport, error)

	// ListBiasReports returns bias reports newest-first, capped at limit
	// when limit is positive.
	ListBiasReports(ctx context.Context, limit int) ([]*fairness.BiasReport, error)

	// SaveDriftReport persists a drift detection report.
	SaveDriftReport(ctx context.Context, r *drift.Report) error

	// GetDriftReport retrieves a drift report by ID.
	GetDriftReport(ctx context.Context, id string) (*drift.Report, error)

	// ListDriftReports returns drift reports newest-first, capped at
	// limit when limit is positive.
	ListDriftReports(ctx context.Context, limit int) ([]*drift.Report, error)

	// Close releases the underlying database.
	Close() error
}
