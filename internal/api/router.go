// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the HTTP-level knobs from the server config.
type RouterConfig struct {
	// CORSOrigins lists allowed origins. Empty disables cross-origin
	// access.
	CORSOrigins []string

	// RateLimitReqs per RateLimitWindow per client IP, applied to the
	// /api/v1 data endpoints. Health endpoints get a permissive fixed
	// limit so probes are never throttled out.
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// Router assembles the HTTP handler tree.
type Router struct {
	cfg     RouterConfig
	handler *Handler
}

// NewRouter creates the router.
func NewRouter(cfg RouterConfig, handler *Handler) *Router {
	if cfg.RateLimitReqs <= 0 {
		cfg.RateLimitReqs = 100
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	return &Router{cfg: cfg, handler: handler}
}

// Setup builds the Chi handler with the full middleware stack.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow))

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", rt.handler.CreateProfile)
			r.Get("/", rt.handler.ListProfiles)
			r.Get("/{id}", rt.handler.GetProfile)
			r.Delete("/{id}", rt.handler.DeleteProfile)
		})

		r.Post("/match", rt.handler.Match)
		r.Post("/match/feedback", rt.handler.Feedback)

		r.Route("/models", func(r chi.Router) {
			r.Get("/", rt.handler.ListModels)
			r.Get("/production", rt.handler.ProductionModel)
			r.Get("/{id}", rt.handler.GetModel)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/drift", rt.handler.ListDriftReports)
			r.Get("/drift/{id}", rt.handler.GetDriftReport)
			r.Get("/bias", rt.handler.ListBiasReports)
			r.Get("/bias/{id}", rt.handler.GetBiasReport)
		})

		r.Get("/pipeline", rt.handler.PipelineState)
		r.Post("/pipeline/failure", rt.handler.PipelineFailure)
	})

	return r
}
