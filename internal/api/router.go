// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package api provides the HTTP facade over the marketplace core using the
// chi router. All responses use the APIResponse envelope; route groups
// carry CORS, rate limiting and Prometheus instrumentation.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aspeti/aspeti/internal/discovery"
	"github.com/aspeti/aspeti/internal/invites"
	"github.com/aspeti/aspeti/internal/messaging"
	"github.com/aspeti/aspeti/internal/middleware"
	"github.com/aspeti/aspeti/internal/offers"
	"github.com/aspeti/aspeti/internal/store"
)

// Config carries the router's security knobs.
type Config struct {
	// AllowedOrigins feeds the CORS policy. Empty allows any origin.
	AllowedOrigins []string

	// RateLimit is the per-IP request budget per RateLimitWindow.
	// Zero disables rate limiting.
	RateLimit       int
	RateLimitWindow time.Duration

	// DefaultRadiusKm applies when a feed query names an address but no
	// radius. Zero leaves the geo stage off unless the caller asks.
	DefaultRadiusKm int

	// DefaultInviteTTLHours applies when an invite request omits the TTL.
	DefaultInviteTTLHours int
}

// Router wires handlers to the marketplace services.
type Router struct {
	cfg       Config
	stores    *store.Stores
	pipeline  *discovery.Pipeline
	offers    *offers.Service
	messaging *messaging.Service
	refresher *messaging.UnreadRefresher
	invites   *invites.Service
}

// New creates a router over the given services.
func New(cfg Config, stores *store.Stores, pipeline *discovery.Pipeline,
	offerSvc *offers.Service, messagingSvc *messaging.Service,
	refresher *messaging.UnreadRefresher, inviteSvc *invites.Service) *Router {
	return &Router{
		cfg:       cfg,
		stores:    stores,
		pipeline:  pipeline,
		offers:    offerSvc,
		messaging: messagingSvc,
		refresher: refresher,
		invites:   inviteSvc,
	}
}

// Handler builds the HTTP routing tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	allowed := rt.cfg.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.RateLimit > 0 {
			window := rt.cfg.RateLimitWindow
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.LimitByIP(rt.cfg.RateLimit, window))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", rt.handleHealth)

		r.Get("/feed", rt.handleFeed)
		r.Get("/cities", rt.handleCities)
		r.Get("/cities/nearest", rt.handleNearestCity)

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", rt.handleListOffers)
			r.Post("/", rt.handleSaveOffer)
			r.Get("/{id}", rt.handleGetOffer)
			r.Delete("/{id}", rt.handleDeleteOffer)
			r.Post("/{id}/publish", rt.handlePublishOffer)
			r.Post("/{id}/suspend", rt.handleSuspendOffer)
			r.Post("/{id}/approve", rt.handleApproveOffer)
			r.Post("/{id}/click", rt.handleOfferClick)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", rt.handleListClients)
			r.Post("/", rt.handleSaveClient)
			r.Delete("/{id}", rt.handleDeleteClient)
		})

		r.Route("/threads", func(r chi.Router) {
			r.Get("/", rt.handleListThreads)
			r.Post("/", rt.handleCreateThread)
			r.Get("/unread-count", rt.handleUnreadCount)
			r.Get("/{id}", rt.handleGetThread)
			r.Post("/{id}/messages", rt.handleAppendMessage)
			r.Post("/{id}/read", rt.handleMarkRead)
			r.Post("/{id}/close", rt.handleCloseThread)
			r.Post("/{id}/reopen", rt.handleReopenThread)
		})

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", rt.handleListInvites)
			r.Post("/", rt.handleCreateInvite)
			r.Post("/redeem", rt.handleRedeemInvite)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
