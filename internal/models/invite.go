// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package models

import "time"

// InviteState is the derived lifecycle state of an invite.
type InviteState string

// Invite states. The state is never stored; it is derived from the
// timestamps on the record.
const (
	InvitePending  InviteState = "pending"
	InviteExpired  InviteState = "expired"
	InviteRedeemed InviteState = "redeemed"
)

// Invite is a single-use onboarding code issued to a prospective client.
// The Code doubles as the record key.
type Invite struct {
	Code       string     `json:"code"`
	EmailHint  string     `json:"emailHint,omitempty"`
	IssuedAt   time.Time  `json:"issuedAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
	RedeemedBy string     `json:"redeemedBy,omitempty"`
}

// State returns the invite's lifecycle state at the given instant.
// Redemption takes precedence over expiry. An invite is valid for
// redemption only strictly before ExpiresAt.
func (i *Invite) State(now time.Time) InviteState {
	if i.RedeemedAt != nil {
		return InviteRedeemed
	}
	if !now.Before(i.ExpiresAt) {
		return InviteExpired
	}
	return InvitePending
}
