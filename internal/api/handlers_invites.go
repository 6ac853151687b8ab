// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package api

import (
	"net/http"
	"time"

	"github.com/aspeti/aspeti/internal/invites"
	"github.com/aspeti/aspeti/internal/models"
)

type createInviteRequest struct {
	EmailHint string `json:"emailHint" validate:"omitempty,email"`
	TTLHours  int    `json:"ttlHours" validate:"min=0,max=8760"`
}

type redeemInviteRequest struct {
	Code     string `json:"code" validate:"required"`
	ClientID string `json:"clientId" validate:"required"`
}

// inviteView decorates an invite with its derived state and deep link.
type inviteView struct {
	models.Invite
	State models.InviteState `json:"state"`
	Link  string             `json:"link"`
}

// handleListInvites returns all invites, newest first, with derived state.
func (rt *Router) handleListInvites(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	list := rt.invites.List()

	views := make([]inviteView, len(list))
	for i, inv := range list {
		views[i] = inviteView{
			Invite: inv,
			State:  inv.State(now),
			Link:   invites.Link(inv.Code),
		}
	}

	respondSuccess(w, http.StatusOK, views, &models.Metadata{
		Timestamp: now,
		Count:     len(views),
	})
}

// handleCreateInvite issues a new invite code.
func (rt *Router) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	ttl := req.TTLHours
	if ttl == 0 {
		ttl = rt.cfg.DefaultInviteTTLHours
	}

	inv, err := rt.invites.Create(req.EmailHint, ttl)
	if err != nil {
		respondMappedError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, inviteView{
		Invite: inv,
		State:  inv.State(time.Now()),
		Link:   invites.Link(inv.Code),
	}, nil)
}

// handleRedeemInvite consumes a code for a client.
func (rt *Router) handleRedeemInvite(w http.ResponseWriter, r *http.Request) {
	var req redeemInviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, &req) {
		return
	}

	inv, err := rt.invites.Redeem(req.Code, req.ClientID)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, inv, nil)
}
