// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Samhita-kolluri/homiehub-23/internal/fairness"
	"github.com/Samhita-kolluri/homiehub-23/internal/matching"
	"github.com/Samhita-kolluri/homiehub-23/internal/modelstore"
	"github.com/Samhita-kolluri/homiehub-23/internal/orchestrator"
	"github.com/Samhita-kolluri/homiehub-23/internal/profile"
	"github.com/Samhita-kolluri/homiehub-23/internal/registry"
	"github.com/Samhita-kolluri/homiehub-23/internal/training"
)

// defaultReportLimit bounds report listings when no limit is given.
const defaultReportLimit = 20

// Pipeline is the orchestrator surface the handlers need. Satisfied by
// *orchestrator.Orchestrator.
type Pipeline interface {
	RecordAccepted(m training.AcceptedMatch)
	PipelineFailure(ctx context.Context, detail string)
	State() orchestrator.State
	LastProgress() time.Time
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	registry *registry.Registry
	engine   *matching.Engine
	store    modelstore.Store
	pipeline Pipeline
	sampler  *fairness.Sampler
	logger   zerolog.Logger
}

// NewHandler creates the endpoint handler. The sampler may be nil when
// fairness sampling is disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(reg *registry.Registry, engine *matching.Engine, store modelstore.Store, pipeline Pipeline, sampler *fairness.Sampler, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: reg,
		engine:   engine,
		store:    store,
		pipeline: pipeline,
		sampler:  sampler,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// CreateProfile registers or updates a profile and vectorizes it under
// the production scheme.
//
// Method: POST
// Path: /api/v1/profiles
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}

	snap := h.engine.Snapshot()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "no production model loaded", nil)
		return
	}

	if err := h.registry.Upsert(&p, snap.Scheme); err != nil {
		respondDomainError(w, err)
		return
	}

	stored, err := h.registry.Get(p.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, stored, start)
}

// GetProfile returns one profile by ID.
//
// Method: GET
// Path: /api/v1/profiles/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, p, start)
}

// ListProfiles returns all profiles, optionally filtered by kind.
//
// Method: GET
// Path: /api/v1/profiles?kind=user|room
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var profiles []*profile.Profile
	switch kind := r.URL.Query().Get("kind"); kind {
	case "":
		profiles = h.registry.All()
	case string(profile.KindUser):
		profiles = h.registry.Users()
	case string(profile.KindRoom):
		profiles = h.registry.Rooms()
	default:
		respondError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be user or room", nil)
		return
	}
	respondData(w, http.StatusOK, profiles, start)
}

// DeleteProfile removes a profile from the candidate pool.
//
// Method: DELETE
// Path: /api/v1/profiles/{id}
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.registry.Get(id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.registry.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// matchRequest is the ranking request body.
type matchRequest struct {
	ProfileID string           `json:"profile_id"`
	Filters   matching.Filters `json:"filters"`
	K         int              `json:"k,omitempty"`
	Sort      string           `json:"sort,omitempty"`
}

// matchResponse wraps the ranked matches with the model that produced
// them and the filter set that was applied, so callers can tell which
// constraints shaped the result.
type matchResponse struct {
	ModelID       string           `json:"model_id"`
	SchemeVersion string           `json:"scheme_version"`
	Filters       matching.Filters `json:"filters"`
	Matches       []matching.Match `json:"matches"`
}

// Match ranks candidates for a profile. An empty match list is a valid
// 200 response; it means no candidate survived the hard filters.
//
// Method: POST
// Path: /api/v1/match
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if req.ProfileID == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PROFILE_ID", "profile_id is required", nil)
		return
	}

	query, err := h.registry.Get(req.ProfileID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	sort, err := matching.ParseSortMode(req.Sort)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	matches, err := h.engine.Rank(matching.Request{
		Query:   query,
		Filters: req.Filters,
		K:       req.K,
		Sort:    sort,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.sampleOutcome(query, req.Filters, matches)

	snap := h.engine.Snapshot()
	resp := matchResponse{Filters: req.Filters, Matches: matches}
	if snap != nil {
		resp.ModelID = snap.Model.ID
		resp.SchemeVersion = snap.Scheme.Version
	}
	respondData(w, http.StatusOK, resp, start)
}

// sampleOutcome records the filtered candidate pool with top-K selection
// marked, feeding the live fairness audit. The sampler admission check
// comes first so rejected samples skip the candidate walk entirely.
func (h *Handler) sampleOutcome(query *profile.Profile, filters matching.Filters, matches []matching.Match) {
	if h.sampler == nil || !h.sampler.Admit() {
		return
	}

	targetKind := profile.KindRoom
	if query.IsRoom() {
		targetKind = profile.KindUser
	}

	selected := make(map[string]int, len(matches))
	for _, m := range matches {
		id := m.RoomID
		if targetKind == profile.KindUser {
			id = m.UserID
		}
		selected[id] = m.Rank
	}

	outcome := fairness.Outcome{QueryID: query.ID}
	for _, entry := range h.registry.Entries(targetKind) {
		if entry.Profile.ID == query.ID || !filters.Admit(entry.Profile) {
			continue
		}
		rank, ok := selected[entry.Profile.ID]
		outcome.Candidates = append(outcome.Candidates, fairness.Candidate{
			ID:       entry.Profile.ID,
			Selected: ok,
			Rank:     rank,
		})
	}
	if len(outcome.Candidates) > 0 {
		h.sampler.Record(outcome)
	}
}

// feedbackRequest records that a user accepted a proposed match.
type feedbackRequest struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
}

// Feedback records an accepted match for the evaluation history.
//
// Method: POST
// Path: /api/v1/match/feedback
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if req.UserID == "" || req.RoomID == "" {
		respondError(w, http.StatusBadRequest, "MISSING_IDS", "user_id and room_id are required", nil)
		return
	}
	if _, err := h.registry.Get(req.UserID); err != nil {
		respondDomainError(w, err)
		return
	}

	h.pipeline.RecordAccepted(training.AcceptedMatch{UserID: req.UserID, RoomID: req.RoomID})
	respondData(w, http.StatusAccepted, nil, start)
}

// ListModels returns stored model versions, newest first.
//
// Method: GET
// Path: /api/v1/models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	models, err := h.store.ListModels(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, models, start)
}

// GetModel returns one model version by ID.
//
// Method: GET
// Path: /api/v1/models/{id}
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	model, err := h.store.GetModel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, model, start)
}

// ProductionModel returns the current production model.
//
// Method: GET
// Path: /api/v1/models/production
func (h *Handler) ProductionModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	model, err := h.store.Production(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, model, start)
}

// parseLimit reads the limit parameter, clamped to [1, 100].
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultReportLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultReportLimit
	}
	if n > 100 {
		return 100
	}
	return n
}

// ListDriftReports returns recent drift reports, newest first.
//
// Method: GET
// Path: /api/v1/reports/drift?limit=N
func (h *Handler) ListDriftReports(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reports, err := h.store.ListDriftReports(r.Context(), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, reports, start)
}

// GetDriftReport returns one drift report by ID.
//
// Method: GET
// Path: /api/v1/reports/drift/{id}
func (h *Handler) GetDriftReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := h.store.GetDriftReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, report, start)
}

// ListBiasReports returns recent bias audit reports, newest first.
//
// Method: GET
// Path: /api/v1/reports/bias?limit=N
func (h *Handler) ListBiasReports(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reports, err := h.store.ListBiasReports(r.Context(), parseLimit(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, reports, start)
}

// GetBiasReport returns one bias report by ID.
//
// Method: GET
// Path: /api/v1/reports/bias/{id}
func (h *Handler) GetBiasReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := h.store.GetBiasReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, report, start)
}

// pipelineStatus is the orchestrator state view.
type pipelineStatus struct {
	State        string    `json:"state"`
	LastProgress time.Time `json:"last_progress"`
}

// PipelineState returns the orchestrator's current lifecycle state.
//
// Method: GET
// Path: /api/v1/pipeline
func (h *Handler) PipelineState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, pipelineStatus{
		State:        h.pipeline.State().String(),
		LastProgress: h.pipeline.LastProgress(),
	}, start)
}

// pipelineFailureRequest is the external failure signal body.
type pipelineFailureRequest struct {
	Detail string `json:"detail"`
}

// PipelineFailure signals an external pipeline failure, which triggers a
// retraining cycle.
//
// Method: POST
// Path: /api/v1/pipeline/failure
func (h *Handler) PipelineFailure(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req pipelineFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if req.Detail == "" {
		req.Detail = "external failure signal"
	}

	h.pipeline.PipelineFailure(r.Context(), req.Detail)
	respondData(w, http.StatusAccepted, nil, start)
}

// healthSummary is the combined health view.
type healthSummary struct {
	Status        string `json:"status"`
	Ready         bool   `json:"ready"`
	PipelineState string `json:"pipeline_state"`
	Profiles      int    `json:"profiles"`
}

// Health returns the combined service health view.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, healthSummary{
		Status:        "ok",
		Ready:         h.engine.Snapshot() != nil,
		PipelineState: h.pipeline.State().String(),
		Profiles:      h.registry.Len(),
	}, start)
}

// HealthLive reports process liveness.
//
// Method: GET
// Path: /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady reports readiness: the service is ready once a production
// model is loaded into the matching engine.
//
// Method: GET
// Path: /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "no production model loaded", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{
		"status":         "ready",
		"model_id":       snap.Model.ID,
		"scheme_version": snap.Scheme.Version,
	}, time.Now())
}
