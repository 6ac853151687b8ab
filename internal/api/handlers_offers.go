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

// handleListOffers returns the provider's full offer list, drafts included.
func (rt *Router) handleListOffers(w http.ResponseWriter, r *http.Request) {
	list := rt.offers.List()
	respondSuccess(w, http.StatusOK, list, &models.Metadata{
		Timestamp: time.Now(),
		Count:     len(list),
	})
}

// handleGetOffer returns one offer by id.
func (rt *Router) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	o, err := rt.offers.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, o, nil)
}

// handleSaveOffer upserts offer content. An empty id creates a draft.
func (rt *Router) handleSaveOffer(w http.ResponseWriter, r *http.Request) {
	var o models.Offer
	if !decodeJSON(w, r, &o) {
		return
	}

	saved, err := rt.offers.Save(o)
	if err != nil {
		respondMappedError(w, err)
		return
	}

	status := http.StatusOK
	if o.ID == "" {
		status = http.StatusCreated
	}
	respondSuccess(w, status, saved, nil)
}

// handleDeleteOffer removes an offer. Absent ids are a no-op.
func (rt *Router) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	rt.offers.Delete(chi.URLParam(r, "id"))
	respondSuccess(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "id")}, nil)
}

// handlePublishOffer runs the guarded Published transition.
func (rt *Router) handlePublishOffer(w http.ResponseWriter, r *http.Request) {
	o, err := rt.offers.Publish(chi.URLParam(r, "id"))
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, o, nil)
}

// handleSuspendOffer takes an offer out of the feed.
func (rt *Router) handleSuspendOffer(w http.ResponseWriter, r *http.Request) {
	o, err := rt.offers.Suspend(chi.URLParam(r, "id"))
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, o, nil)
}

// handleApproveOffer marks a draft approved.
func (rt *Router) handleApproveOffer(w http.ResponseWriter, r *http.Request) {
	o, err := rt.offers.Approve(chi.URLParam(r, "id"))
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, o, nil)
}

// handleOfferClick records one click for the top annotation.
func (rt *Router) handleOfferClick(w http.ResponseWriter, r *http.Request) {
	if err := rt.offers.RecordClick(chi.URLParam(r, "id")); err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"clicked": chi.URLParam(r, "id")}, nil)
}
