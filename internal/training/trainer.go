// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package training

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/modelstore"
	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// Config bounds training and evaluation.
type Config struct {
	// MinCorpus is the minimum usable corpus size; smaller corpora fail
	// with ErrCorpusTooSmall rather than producing weights from noise.
	MinCorpus int

	// PrecisionK is the K used for precision@K evaluation.
	PrecisionK int

	// MinPrecision is the evaluation pass threshold.
	MinPrecision float64

	// Workers bounds evaluation parallelism.
	Workers int
}

// ErrCorpusTooSmall is returned when the corpus cannot support training.
var ErrCorpusTooSmall = errors.New("training: corpus below minimum size")

// Result is one completed training run: the candidate model, the scheme
// carrying its weights, and the room vectors produced under it, which
// become the drift baseline if the candidate is promoted.
type Result struct {
	Model       *modelstore.ModelVersion
	Scheme      *vectorize.Scheme
	RoomVectors []vectorize.FeatureVector
}

// Trainer derives candidate models from a profile corpus.
type Trainer struct {
	cfg    Config
	logger zerolog.Logger
}

// NewTrainer creates a trainer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(cfg Config, logger zerolog.Logger) *Trainer {
	if cfg.MinCorpus < 2 {
		cfg.MinCorpus = 2
	}
	return &Trainer{
		cfg:    cfg,
		logger: logger.With().Str("component", "training").Logger(),
	}
}

// MinPrecision returns the configured evaluation pass threshold.
func (t *Trainer) MinPrecision() float64 { return t.cfg.MinPrecision }

// PrecisionK returns the K used for evaluation and candidate audits.
func (t *Trainer) PrecisionK() int {
	if t.cfg.PrecisionK <= 0 {
		return 5
	}
	return t.cfg.PrecisionK
}

// Train derives category weights from the corpus and produces a candidate
// model under a fresh scheme version. The derivation is pure: the same
// corpus and base scheme always yield the same weights.
func (t *Trainer) Train(corpus []*profile.Profile, base *vectorize.Scheme) (*Result, error) {
	if len(corpus) < t.cfg.MinCorpus {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrCorpusTooSmall, len(corpus), t.cfg.MinCorpus)
	}

	// Vectorize under unit weights so spreads reflect the data, not the
	// outgoing model's weighting.
	unit := base.WithWeights(base.Version+"-unit", unitWeights())
	raw := make([]vectorize.FeatureVector, 0, len(corpus))
	for _, p := range corpus {
		vec, err := vectorize.Vectorize(p, unit)
		if err != nil {
			// Corpus comes from the registry, which only stores
			// vectorizable profiles; a failure here means the base
			// vocabulary shrank underneath it.
			t.logger.Warn().Err(err).Str("profile_id", p.ID).Msg("excluding profile from corpus")
			continue
		}
		raw = append(raw, vec)
	}
	if len(raw) < t.cfg.MinCorpus {
		return nil, fmt.Errorf("%w: %d of %d profiles vectorizable", ErrCorpusTooSmall, len(raw), len(corpus))
	}

	weights := deriveWeights(raw)

	modelID := uuid.NewString()
	scheme := base.WithWeights("scheme-"+modelID[:8], weights)

	var roomVectors []vectorize.FeatureVector
	for _, p := range corpus {
		if !p.IsRoom() {
			continue
		}
		vec, err := vectorize.Vectorize(p, scheme)
		if err != nil {
			continue
		}
		roomVectors = append(roomVectors, vec)
	}

	model := &modelstore.ModelVersion{
		ID:            modelID,
		SchemeVersion: scheme.Version,
		Weights:       weights,
		Metrics:       modelstore.Metrics{CorpusSize: len(raw)},
		State:         modelstore.StateCandidate,
		TrainedAt:     time.Now().UTC(),
	}

	t.logger.Info().
		Str("model_id", model.ID).
		Str("scheme_version", scheme.Version).
		Int("corpus_size", len(raw)).
		Msg("candidate model trained")

	return &Result{Model: model, Scheme: scheme, RoomVectors: roomVectors}, nil
}

func unitWeights() vectorize.CategoryWeights {
	return vectorize.CategoryWeights{
		Location: 1, Gender: 1, Budget: 1, Lease: 1, RoomType: 1,
		Bathroom: 1, Food: 1, Alcohol: 1, Smoke: 1, Utilities: 1,
	}
}

// deriveWeights maps per-category feature spread to weights in [1,5]. A
// feature that varies across the corpus discriminates between profiles and
// earns weight; a near-constant feature contributes little signal. Weights
// round to two decimals so serialized models compare exactly.
func deriveWeights(vectors []vectorize.FeatureVector) vectorize.CategoryWeights {
	spreads := featureSpreads(vectors)

	categorySpread := [10]float64{
		(spreads[vectorize.FeatLatitude] + spreads[vectorize.FeatLongitude]) / 2,
		spreads[vectorize.FeatGender],
		spreads[vectorize.FeatBudget],
		spreads[vectorize.FeatLease],
		spreads[vectorize.FeatRoomType],
		spreads[vectorize.FeatBathroom],
		spreads[vectorize.FeatFood],
		spreads[vectorize.FeatAlcohol],
		spreads[vectorize.FeatSmoke],
		spreads[vectorize.FeatUtilities],
	}

	var maxSpread float64
	for _, s := range categorySpread {
		if s > maxSpread {
			maxSpread = s
		}
	}
	if maxSpread == 0 {
		// Degenerate corpus with no variance anywhere; keep the launch
		// weights rather than flattening everything to equal weight.
		return vectorize.DefaultWeights()
	}

	scale := func(s float64) float64 {
		w := 1 + 4*s/maxSpread
		return math.Round(w*100) / 100
	}
	return vectorize.CategoryWeights{
		Location:  scale(categorySpread[0]),
		Gender:    scale(categorySpread[1]),
		Budget:    scale(categorySpread[2]),
		Lease:     scale(categorySpread[3]),
		RoomType:  scale(categorySpread[4]),
		Bathroom:  scale(categorySpread[5]),
		Food:      scale(categorySpread[6]),
		Alcohol:   scale(categorySpread[7]),
		Smoke:     scale(categorySpread[8]),
		Utilities: scale(categorySpread[9]),
	}
}

// featureSpreads returns the population standard deviation of each feature.
func featureSpreads(vectors []vectorize.FeatureVector) [vectorize.Dim]float64 {
	var sums, sumSquares [vectorize.Dim]float64
	for _, v := range vectors {
		for i, val := range v.Values {
			sums[i] += val
			sumSquares[i] += val * val
		}
	}
	n := float64(len(vectors))
	var spreads [vectorize.Dim]float64
	for i := range spreads {
		mean := sums[i] / n
		variance := sumSquares[i]/n - mean*mean
		if variance > 0 {
			spreads[i] = math.Sqrt(variance)
		}
	}
	return spreads
}
