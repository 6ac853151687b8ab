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

type createThreadRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
}

type appendMessageRequest struct {
	Author string `json:"author" validate:"required,oneof=provider client"`
	Text   string `json:"text" validate:"required"`
}

// handleListThreads returns threads sorted by last activity.
func (rt *Router) handleListThreads(w http.ResponseWriter, r *http.Request) {
	list := rt.messaging.List()
	respondSuccess(w, http.StatusOK, list, &models.Metadata{
		Timestamp: time.Now(),
		Count:     len(list),
	})
}

// handleGetThread returns one thread with its full message sequence.
func (rt *Router) handleGetThread(w http.ResponseWriter, r *http.Request) {
	t, err := rt.messaging.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, t, nil)
}

// handleCreateThread opens a conversation with a client.
func (rt *Router) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	thread, err := rt.messaging.CreateThread(req.ClientID, req.Subject)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, thread, nil)
}

// handleAppendMessage adds a message; client-authored messages bump the
// unread counter, so the refresher is nudged afterwards.
func (rt *Router) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var req appendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	item, err := rt.messaging.AppendMessage(chi.URLParam(r, "id"), models.MessageAuthor(req.Author), req.Text)
	if err != nil {
		respondMappedError(w, err)
		return
	}

	if rt.refresher != nil {
		rt.refresher.Refresh()
	}
	respondSuccess(w, http.StatusCreated, item, nil)
}

// handleMarkRead acknowledges every client message in a thread.
func (rt *Router) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := rt.messaging.MarkRead(chi.URLParam(r, "id")); err != nil {
		respondMappedError(w, err)
		return
	}
	if rt.refresher != nil {
		rt.refresher.Refresh()
	}
	respondSuccess(w, http.StatusOK, map[string]string{"read": chi.URLParam(r, "id")}, nil)
}

// handleCloseThread marks a thread closed.
func (rt *Router) handleCloseThread(w http.ResponseWriter, r *http.Request) {
	if err := rt.messaging.Close(chi.URLParam(r, "id")); err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"closed": chi.URLParam(r, "id")}, nil)
}

// handleReopenThread reverses a close.
func (rt *Router) handleReopenThread(w http.ResponseWriter, r *http.Request) {
	if err := rt.messaging.Reopen(chi.URLParam(r, "id")); err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"reopened": chi.URLParam(r, "id")}, nil)
}

// handleUnreadCount returns the total unread across all threads.
func (rt *Router) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]int{"unread": rt.messaging.TotalUnread()}, nil)
}
