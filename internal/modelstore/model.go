// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package modelstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// State tracks a model version through its lifecycle.
type State string

const (
	// StateCandidate is a freshly trained model awaiting validation.
	StateCandidate State = "candidate"

	// StateValidated passed evaluation and fairness checks but is not yet
	// serving traffic.
	StateValidated State = "validated"

	// StateProduction is the single model serving match requests.
	StateProduction State = "production"

	// StateRejected failed validation and never served traffic.
	StateRejected State = "rejected"

	// StateRetired previously served traffic and was replaced.
	StateRetired State = "retired"
)

// Metrics captures a model's evaluation results.
type Metrics struct {
	PrecisionAtK float64 `json:"precision_at_k"`
	K            int     `json:"k"`
	CorpusSize   int     `json:"corpus_size"`
	EvalPairs    int     `json:"eval_pairs"`
}

// ModelVersion is one trained model: the vectorization scheme it was built
// for, its category weights, and its lifecycle state.
type ModelVersion struct {
	ID            string                    `json:"id"`
	SchemeVersion string                    `json:"scheme_version"`
	Weights       vectorize.CategoryWeights `json:"weights"`
	Metrics       Metrics                   `json:"metrics"`
	State         State                     `json:"state"`
	TrainedAt     time.Time                 `json:"trained_at"`
	PromotedAt    *time.Time                `json:"promoted_at,omitempty"`
	RetiredAt     *time.Time                `json:"retired_at,omitempty"`
	Notes         string                    `json:"notes,omitempty"`
}

// Baseline is the stored reference window for drift detection, captured at
// promotion time from the vectors the promoted model was trained on.
type Baseline struct {
	ModelID       string                    `json:"model_id"`
	SchemeVersion string                    `json:"scheme_version"`
	Vectors       []vectorize.FeatureVector `json:"vectors"`
	CapturedAt    time.Time                 `json:"captured_at"`
}

var (
	// ErrModelNotFound is returned when no model exists for an ID.
	ErrModelNotFound = errors.New("modelstore: model not found")

	// ErrNoProduction is returned before any model has been promoted.
	ErrNoProduction = errors.New("modelstore: no production model")

	// ErrNoBaseline is returned before any baseline has been captured.
	ErrNoBaseline = errors.New("modelstore: no baseline captured")

	// ErrReportNotFound is returned when no report exists for an ID.
	ErrReportNotFound = errors.New("modelstore: report not found")
)

// validTransitions lists the allowed state moves. Promotion and demotion
// happen only through SetProduction.
var validTransitions = map[State][]State{
	StateCandidate:  {StateValidated, StateRejected},
	StateValidated:  {StateProduction, StateRejected},
	StateProduction: {StateRetired},
	StateRejected:   nil,
	StateRetired:    nil,
}

// CanTransition reports whether a model may move from its current state to
// the target state.
func (m *ModelVersion) CanTransition(to State) bool {
	for _, allowed := range validTransitions[m.State] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the model to the target state, stamping promotion and
// retirement times.
func (m *ModelVersion) Transition(to State) error {
	if !m.CanTransition(to) {
		return fmt.Errorf("modelstore: invalid transition %s -> %s for model %s", m.State, to, m.ID)
	}
	now := time.Now().UTC()
	switch to {
	case StateProduction:
		m.PromotedAt = &now
	case StateRetired:
		m.RetiredAt = &now
	}
	m.State = to
	return nil
}
