// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aspeti/aspeti/internal/models"
)

// handleListClients returns all clients in insertion order.
func (rt *Router) handleListClients(w http.ResponseWriter, r *http.Request) {
	list := rt.stores.Clients.List()
	respondSuccess(w, http.StatusOK, list, &models.Metadata{
		Timestamp: time.Now(),
		Count:     len(list),
	})
}

// handleSaveClient upserts a client record. Name is required, email and
// phone are optional but validated when present.
func (rt *Router) handleSaveClient(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if !decodeJSON(w, r, &c) {
		return
	}
	if !validateRequest(w, &c) {
		return
	}

	if c.Status == "" {
		c.Status = models.ClientActive
	}
	if c.DateAdded.IsZero() {
		c.DateAdded = time.Now()
	}

	saved, err := rt.stores.Clients.Upsert(c)
	if err != nil {
		respondMappedError(w, err)
		return
	}

	status := http.StatusOK
	if c.ID == "" {
		status = http.StatusCreated
	}
	respondSuccess(w, status, saved, nil)
}

// handleDeleteClient removes a client. Deletion does not cascade: threads
// and offers referencing the id keep working with a dangling reference.
func (rt *Router) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	rt.stores.Clients.Remove(chi.URLParam(r, "id"))
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")}, nil)
}
