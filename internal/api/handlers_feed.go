// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/aspeti/aspeti/internal/discovery"
	"github.com/aspeti/aspeti/internal/geo"
	"github.com/aspeti/aspeti/internal/models"
)

// handleHealth reports liveness plus per-store persistence health.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	rt.stores.ReportHealth()

	status := "ok"
	if !rt.stores.Healthy() {
		status = "degraded"
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":  status,
		"storage": rt.stores.Healthy(),
	}, nil)
}

// handleFeed runs a discovery query. The viewer parameter carries a client
// id; an unknown or absent viewer is treated as anonymous.
func (rt *Router) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	text := strings.TrimSpace(q.Get("text"))
	if text == "" {
		text = strings.TrimSpace(q.Get("q"))
	}

	var viewer *models.Client
	if viewerID := strings.TrimSpace(q.Get("viewer")); viewerID != "" {
		if c, err := rt.stores.Clients.Get(viewerID); err == nil {
			viewer = &c
		}
	}

	res := rt.pipeline.Discover(discovery.Query{
		Text:     text,
		Category: strings.TrimSpace(q.Get("category")),
		Address:  strings.TrimSpace(q.Get("address")),
		RadiusKm: getIntParam(r, "radius_km", rt.cfg.DefaultRadiusKm),
		Sort:     discovery.SortMode(strings.TrimSpace(q.Get("sort"))),
		Viewer:   viewer,
	})

	respondSuccess(w, http.StatusOK, models.FeedResult{
		VIP:        res.VIP,
		Standard:   res.Standard,
		TotalCount: res.TotalCount,
	}, &models.Metadata{
		Timestamp:  time.Now(),
		Count:      res.TotalCount,
		TotalCount: res.TotalCount,
	})
}

// handleCities returns the static city table for suggestions.
func (rt *Router) handleCities(w http.ResponseWriter, r *http.Request) {
	cities := geo.Cities()
	respondSuccess(w, http.StatusOK, cities, &models.Metadata{
		Timestamp: time.Now(),
		Count:     len(cities),
	})
}

// handleNearestCity resolves lat/lng to the closest known city, backing the
// feed's "use my location" flow.
func (rt *Router) handleNearestCity(w http.ResponseWriter, r *http.Request) {
	lat, latOK := getFloatParam(r, "lat")
	lng, lngOK := getFloatParam(r, "lng")
	if !latOK || !lngOK {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest, "lat and lng are required", nil)
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "coordinates out of range", nil)
		return
	}

	city, ok := geo.Nearest(models.LatLng{Lat: lat, Lng: lng})
	if !ok {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "no known cities", nil)
		return
	}

	respondSuccess(w, http.StatusOK, city, nil)
}
