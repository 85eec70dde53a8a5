// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/drift"
	"github.com/Samhita-kolluri/homiehub-23/internal/fairness"
	"github.com/Samhita-kolluri/homiehub-23/internal/matching"
	"github.com/Samhita-kolluri/homiehub-23/internal/metrics"
	"github.com/Samhita-kolluri/homiehub-23/internal/modelstore"
	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/registry"
	"github.com/Samhita-kolluri/homiehub-23/internal/training"
	"github.com/Samhita-kolluri/homiehub-23/internal/vectorize"
)

// Config tunes the monitoring loop and cycle bounds.
type Config struct {
	// Interval between drift and fairness checks.
	Interval time.Duration

	// LivenessTimeout is how long a cycle may go without a heartbeat
	// before CheckLiveness cancels it.
	LivenessTimeout time.Duration

	// MaxRetries bounds retraining attempts per cycle on unexpected
	// errors. Threshold failures are terminal, never retried.
	MaxRetries int

	// MinAuditSamples is the minimum sampled outcomes before a live
	// fairness audit runs.
	MinAuditSamples int

	// Bootstrap promotes an initial default-weight model at startup when
	// the store has no production model.
	Bootstrap bool
}

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	Registry   *registry.Registry
	Engine     *matching.Engine
	Detector   *drift.Detector
	Auditor    *fairness.Auditor
	Sampler    *fairness.Sampler
	Attributes []fairness.Attribute
	Trainer    *training.Trainer
	Store      modelstore.Store
	Bus        *Bus
}

// Orchestrator owns the ModelVersion lifecycle. Nothing else promotes,
// retires or rejects models.
type Orchestrator struct {
	cfg    Config
	deps   Deps
	logger zerolog.Logger

	state     atomic.Int32
	retrainMu sync.Mutex
	pending   atomic.Bool
	heartbeat atomic.Int64

	cancelMu    sync.Mutex
	cancelCycle context.CancelFunc

	historyMu sync.RWMutex
	history   []training.AcceptedMatch
}

// New creates an orchestrator in MONITORING.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, deps Deps, logger zerolog.Logger) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	o := &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}
	o.setState(StateMonitoring)
	o.markProgress()
	return o
}

// State returns the current state machine position.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) setState(s State) {
	o.state.Store(int32(s))
	metrics.OrchestratorState.Set(float64(s))
	o.logger.Info().Str("state", s.String()).Msg("state transition")
}

// markProgress records a liveness heartbeat.
func (o *Orchestrator) markProgress() {
	o.heartbeat.Store(time.Now().UnixNano())
}

// LastProgress returns the time of the last heartbeat.
func (o *Orchestrator) LastProgress() time.Time {
	return time.Unix(0, o.heartbeat.Load())
}

// RecordAccepted appends a historical accepted match used as a relevance
// label during candidate evaluation.
func (o *Orchestrator) RecordAccepted(m training.AcceptedMatch) {
	o.historyMu.Lock()
	defer o.historyMu.Unlock()
	o.history = append(o.history, m)
}

// History returns a copy of the accepted-match history.
func (o *Orchestrator) History() []training.AcceptedMatch {
	o.historyMu.RLock()
	defer o.historyMu.RUnlock()
	return append([]training.AcceptedMatch(nil), o.history...)
}

// Serve runs the monitoring loop until the context is cancelled. It is the
// suture service entry point.
func (o *Orchestrator) Serve(ctx context.Context) error {
	if err := o.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.Tick(ctx)
		}
	}
}

// Bootstrap restores the production snapshot from the store, or, when the
// store is empty and bootstrapping is enabled, promotes an initial model
// carrying the launch scheme's hand-tuned weights.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	prod, err := o.deps.Store.Production(ctx)
	switch {
	case err == nil:
		scheme := vectorize.DefaultScheme().WithWeights(prod.SchemeVersion, prod.Weights)
		o.deps.Engine.Swap(&matching.Snapshot{Model: prod, Scheme: scheme})
		if errs := o.deps.Registry.Revectorize(scheme); len(errs) > 0 {
			o.logger.Warn().Int("failures", len(errs)).Msg("restore revectorization incomplete")
		}
		o.logger.Info().Str("model_id", prod.ID).Msg("production model restored")
		return nil

	case errors.Is(err, modelstore.ErrNoProduction):
		if !o.cfg.Bootstrap {
			o.logger.Warn().Msg("no production model and bootstrap disabled; ranking unavailable until first promotion")
			return nil
		}
	default:
		return err
	}

	scheme := vectorize.DefaultScheme()
	model := &modelstore.ModelVersion{
		ID:            uuid.NewString(),
		SchemeVersion: scheme.Version,
		Weights:       scheme.Weights,
		State:         modelstore.StateValidated,
		TrainedAt:     time.Now().UTC(),
		Notes:         "bootstrap model with launch weights",
	}
	if err := o.deps.Store.SaveModel(ctx, model); err != nil {
		return err
	}
	promoted, err := o.deps.Store.SetProduction(ctx, model.ID)
	if err != nil {
		return err
	}
	o.deps.Engine.Swap(&matching.Snapshot{Model: promoted, Scheme: scheme})

	if err := o.deps.Store.SaveBaseline(ctx, &modelstore.Baseline{
		ModelID:       promoted.ID,
		SchemeVersion: scheme.Version,
		Vectors:       o.deps.Registry.Vectors(profile.KindRoom),
		CapturedAt:    time.Now().UTC(),
	}); err != nil {
		return err
	}

	o.logger.Info().Str("model_id", promoted.ID).Msg("bootstrap model promoted")
	return nil
}

// Tick runs one monitoring pass: fairness audit over sampled outcomes,
// drift check against the baseline, and a retraining cycle if either
// fired.
func (o *Orchestrator) Tick(ctx context.Context) {
	metrics.ProfilesRegistered.WithLabelValues(string(profile.KindUser)).Set(float64(len(o.deps.Registry.Users())))
	metrics.ProfilesRegistered.WithLabelValues(string(profile.KindRoom)).Set(float64(len(o.deps.Registry.Rooms())))

	triggered := o.fairnessCheck(ctx)
	if o.driftCheck(ctx) {
		triggered = true
	}
	if triggered {
		o.Trigger(ctx, "monitor")
	}
}

// driftCheck compares the registry's current room vectors against the
// stored baseline. Returns true when drift crossed the threshold.
func (o *Orchestrator) driftCheck(ctx context.Context) bool {
	baseline, err := o.deps.Store.GetBaseline(ctx)
	if err != nil {
		if !errors.Is(err, modelstore.ErrNoBaseline) {
			o.logger.Error().Err(err).Msg("load baseline")
		}
		return false
	}

	current := o.deps.Registry.Vectors(profile.KindRoom)
	report, err := o.deps.Detector.Detect(current, baseline.Vectors)
	if err != nil {
		if errors.Is(err, drift.ErrWindowTooSmall) || errors.Is(err, drift.ErrEmptyBaseline) {
			o.logger.Debug().Err(err).Msg("drift check skipped")
		} else {
			o.logger.Error().Err(err).Msg("drift check failed")
		}
		return false
	}

	for _, f := range report.Features {
		metrics.DriftFeatureScore.WithLabelValues(f.Feature).Set(f.PSI)
	}
	metrics.DriftAggregateScore.Set(report.Aggregate)

	if err := o.deps.Store.SaveDriftReport(ctx, report); err != nil {
		o.logger.Error().Err(err).Msg("save drift report")
	}

	if !report.DriftDetected {
		metrics.DriftChecksTotal.WithLabelValues("stable").Inc()
		return false
	}
	metrics.DriftChecksTotal.WithLabelValues("drift").Inc()

	o.deps.Bus.Publish(TopicDriftDetected, Event{
		Metric:    "aggregate_psi",
		Threshold: report.Threshold,
		Observed:  report.Aggregate,
		ModelID:   baseline.ModelID,
		Detail:    "top feature " + report.TopFeature,
	})
	return true
}

// fairnessCheck audits the sampled live outcomes. Returns true on a failed
// verdict.
func (o *Orchestrator) fairnessCheck(ctx context.Context) bool {
	if o.deps.Sampler.Len() < o.cfg.MinAuditSamples {
		return false
	}
	outcomes := o.deps.Sampler.Snapshot()
	o.deps.Sampler.Reset()

	snap := o.deps.Engine.Snapshot()
	modelID := ""
	if snap != nil && snap.Model != nil {
		modelID = snap.Model.ID
	}

	report, err := o.deps.Auditor.Audit(outcomes, o.deps.Attributes, modelID)
	if err != nil {
		o.logger.Error().Err(err).Msg("fairness audit failed")
		return false
	}
	o.recordBiasReport(ctx, report)
	if report.Passed {
		return false
	}

	violation, _ := report.FirstViolation()
	o.deps.Bus.Publish(TopicBiasViolation, Event{
		Metric:    violation.Metric,
		Threshold: violation.Threshold,
		Observed:  violation.Observed,
		ModelID:   modelID,
		Detail:    "group " + violation.Group,
	})
	return true
}

func (o *Orchestrator) recordBiasReport(ctx context.Context, report *fairness.BiasReport) {
	verdict := "pass"
	if !report.Passed {
		verdict = "fail"
	}
	metrics.BiasAuditsTotal.WithLabelValues(verdict).Inc()
	for _, slice := range report.Slices {
		metrics.BiasParityDifference.WithLabelValues(slice.Attribute).Set(slice.ParityDifference)
	}
	if err := o.deps.Store.SaveBiasReport(ctx, report); err != nil {
		o.logger.Error().Err(err).Msg("save bias report")
	}
}

// PipelineFailure handles an external pipeline-failure signal: it is
// published for subscribers and treated as a retraining trigger.
//
// The cycle runs detached from the caller: the signal usually arrives on
// an HTTP request goroutine, and a client disconnect must not cancel a
// healthy retraining cycle mid-flight.
func (o *Orchestrator) PipelineFailure(ctx context.Context, detail string) {
	o.deps.Bus.Publish(TopicPipelineFailure, Event{
		Metric: "pipeline_failure",
		Detail: detail,
	})
	go o.Trigger(context.WithoutCancel(ctx), "pipeline_failure")
}

// Trigger starts a retraining cycle, or queues one if a cycle is already
// running. Simultaneous triggers coalesce: any number of queued triggers
// collapse into a single followup cycle.
//
// The pending flag is set before the lock attempt and re-checked after
// every release. A trigger that lands between a runner's drain and its
// release is therefore picked up by that runner's post-release check
// instead of stranding with no active cycle.
func (o *Orchestrator) Trigger(ctx context.Context, reason string) {
	o.pending.Store(true)

	for o.pending.Load() {
		if !o.retrainMu.TryLock() {
			o.logger.Info().Str("reason", reason).Msg("retraining in progress; trigger queued")
			return
		}
		for o.pending.Swap(false) {
			o.runCycle(ctx, reason)
			reason = "queued"
		}
		o.retrainMu.Unlock()
	}
}

// CheckLiveness cancels the running cycle when its heartbeat has gone
// stale. Called by the supervising monitor service; cancellation forces the
// cycle into ROLLED_BACK.
func (o *Orchestrator) CheckLiveness() {
	if o.cfg.LivenessTimeout <= 0 {
		return
	}
	switch o.State() {
	case StateTriggered, StateRetraining, StateValidating:
	default:
		return
	}
	if time.Since(o.LastProgress()) < o.cfg.LivenessTimeout {
		return
	}

	o.logger.Error().
		Time("last_progress", o.LastProgress()).
		Msg("retraining cycle hung; forcing cancellation")

	o.cancelMu.Lock()
	cancel := o.cancelCycle
	o.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// runCycle executes one full retraining cycle. Terminal transitions are
// handled inside; the state is back to MONITORING when it returns.
func (o *Orchestrator) runCycle(ctx context.Context, reason string) {
	o.setState(StateTriggered)
	o.markProgress()
	o.logger.Info().Str("reason", reason).Msg("retraining cycle started")

	cctx, cancel := context.WithCancel(ctx)
	o.cancelMu.Lock()
	o.cancelCycle = cancel
	o.cancelMu.Unlock()
	defer func() {
		o.cancelMu.Lock()
		o.cancelCycle = nil
		o.cancelMu.Unlock()
		cancel()
	}()

	var lastErr error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		done, err := o.attempt(cctx)
		if done {
			return
		}
		lastErr = err
		if cctx.Err() != nil {
			// Cancellation is an error input, not a retryable fault.
			break
		}
		o.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retraining attempt failed")
	}

	detail := "retraining attempts exhausted"
	if lastErr != nil {
		detail = lastErr.Error()
	}
	o.rollback(ctx, Event{
		Metric:  "retraining_failure",
		ModelID: o.productionID(),
		Detail:  detail,
	})
}

// attempt runs train-then-validate once. done=true means the cycle reached
// a terminal transition (promoted or threshold rollback); done=false with
// an error means an unexpected fault the caller may retry.
func (o *Orchestrator) attempt(ctx context.Context) (bool, error) {
	o.setState(StateRetraining)
	o.markProgress()

	corpus := o.deps.Registry.All()
	base := vectorize.DefaultScheme()
	if snap := o.deps.Engine.Snapshot(); snap != nil && snap.Scheme != nil {
		base = snap.Scheme
	}

	result, err := o.deps.Trainer.Train(corpus, base)
	if err != nil {
		return false, err
	}

	o.setState(StateValidating)
	o.markProgress()

	eval, err := o.deps.Trainer.Evaluate(ctx, corpus, o.History(), result)
	if err != nil {
		return false, err
	}
	result.Model.Metrics.PrecisionAtK = eval.PrecisionAtK
	result.Model.Metrics.K = eval.K
	result.Model.Metrics.EvalPairs = eval.Pairs

	if !o.deps.Trainer.Passes(eval) {
		o.rejectCandidate(ctx, result.Model, Event{
			Metric:    "precision_at_k",
			Threshold: o.deps.Trainer.MinPrecision(),
			Observed:  eval.PrecisionAtK,
			ModelID:   result.Model.ID,
		})
		return true, nil
	}

	biasReport, err := o.auditCandidate(ctx, corpus, result)
	if err != nil {
		return false, err
	}
	if biasReport != nil {
		o.recordBiasReport(ctx, biasReport)
		if !biasReport.Passed {
			violation, _ := biasReport.FirstViolation()
			o.rejectCandidate(ctx, result.Model, Event{
				Metric:    violation.Metric,
				Threshold: violation.Threshold,
				Observed:  violation.Observed,
				ModelID:   result.Model.ID,
				Detail:    "group " + violation.Group,
			})
			return true, nil
		}
	}
	o.markProgress()

	if err := o.promote(ctx, result, eval); err != nil {
		return false, err
	}
	return true, nil
}

// auditCandidate ranks every user through a throwaway engine running the
// candidate model and audits the simulated outcomes. Returns nil without
// error when the corpus has no users to rank.
func (o *Orchestrator) auditCandidate(ctx context.Context, corpus []*profile.Profile, result *training.Result) (*fairness.BiasReport, error) {
	k := o.deps.Trainer.PrecisionK()

	source := &corpusSource{entries: make(map[profile.Kind][]registry.Entry)}
	for _, p := range corpus {
		vec, err := vectorize.Vectorize(p, result.Scheme)
		if err != nil {
			continue
		}
		source.entries[p.Kind] = append(source.entries[p.Kind], registry.Entry{Profile: p, Vector: vec})
	}

	engine := matching.NewEngine(matching.Config{DefaultK: k, MaxK: k}, source, o.logger)
	engine.Swap(&matching.Snapshot{Model: result.Model, Scheme: result.Scheme})

	rooms := source.entries[profile.KindRoom]
	var outcomes []fairness.Outcome
	for _, entry := range source.entries[profile.KindUser] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := engine.Rank(matching.Request{Query: entry.Profile, K: k})
		if err != nil {
			return nil, fmt.Errorf("audit ranking for %s: %w", entry.Profile.ID, err)
		}

		selected := make(map[string]int, len(matches))
		for _, m := range matches {
			selected[m.RoomID] = m.Rank
		}
		outcome := fairness.Outcome{QueryID: entry.Profile.ID}
		for _, room := range rooms {
			rank, ok := selected[room.Profile.ID]
			outcome.Candidates = append(outcome.Candidates, fairness.Candidate{
				ID:       room.Profile.ID,
				Selected: ok,
				Rank:     rank,
			})
		}
		outcomes = append(outcomes, outcome)
	}
	if len(outcomes) == 0 {
		return nil, nil
	}

	return o.deps.Auditor.Audit(outcomes, o.deps.Attributes, result.Model.ID)
}

// corpusSource serves fixed entries to the candidate-audit engine.
type corpusSource struct {
	entries map[profile.Kind][]registry.Entry
}

func (s *corpusSource) Entries(kind profile.Kind) []registry.Entry {
	return s.entries[kind]
}

// promote installs the validated candidate: store pointer, engine snapshot,
// drift baseline and registry vectors all move to the new scheme.
func (o *Orchestrator) promote(ctx context.Context, result *training.Result, eval *training.Evaluation) error {
	model := result.Model
	if err := model.Transition(modelstore.StateValidated); err != nil {
		return err
	}
	if err := o.deps.Store.SaveModel(ctx, model); err != nil {
		return err
	}

	promoted, err := o.deps.Store.SetProduction(ctx, model.ID)
	if err != nil {
		return err
	}

	o.deps.Engine.Swap(&matching.Snapshot{Model: promoted, Scheme: result.Scheme})

	if err := o.deps.Store.SaveBaseline(ctx, &modelstore.Baseline{
		ModelID:       promoted.ID,
		SchemeVersion: result.Scheme.Version,
		Vectors:       result.RoomVectors,
		CapturedAt:    time.Now().UTC(),
	}); err != nil {
		return err
	}

	if errs := o.deps.Registry.Revectorize(result.Scheme); len(errs) > 0 {
		o.logger.Warn().Int("failures", len(errs)).Msg("revectorization incomplete after promotion")
	}

	o.setState(StatePromoted)
	metrics.RetrainingCyclesTotal.WithLabelValues("promoted").Inc()
	o.deps.Bus.Publish(TopicModelPromoted, Event{
		Metric:    "precision_at_k",
		Threshold: o.deps.Trainer.MinPrecision(),
		Observed:  eval.PrecisionAtK,
		ModelID:   promoted.ID,
	})
	o.logger.Info().Str("model_id", promoted.ID).Msg("candidate promoted to production")

	o.setState(StateMonitoring)
	return nil
}

// rejectCandidate marks a threshold-failing candidate rejected and rolls
// the cycle back. The production model is untouched.
func (o *Orchestrator) rejectCandidate(ctx context.Context, model *modelstore.ModelVersion, ev Event) {
	if err := model.Transition(modelstore.StateRejected); err == nil {
		if err := o.deps.Store.SaveModel(ctx, model); err != nil {
			o.logger.Error().Err(err).Msg("save rejected candidate")
		}
	}
	o.rollback(ctx, ev)
}

// rollback is the ROLLED_BACK terminal transition.
func (o *Orchestrator) rollback(_ context.Context, ev Event) {
	o.setState(StateRolledBack)
	metrics.RetrainingCyclesTotal.WithLabelValues("rolled_back").Inc()
	o.deps.Bus.Publish(TopicModelRolledBack, ev)
	o.logger.Warn().
		Str("metric", ev.Metric).
		Float64("observed", ev.Observed).
		Str("model_id", ev.ModelID).
		Msg("retraining cycle rolled back")

	o.setState(StateMonitoring)
}

func (o *Orchestrator) productionID() string {
	if snap := o.deps.Engine.Snapshot(); snap != nil && snap.Model != nil {
		return snap.Model.ID
	}
	return ""
}
