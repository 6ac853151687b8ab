// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestOfferNormalizeLegacyAliases(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		check    func(t *testing.T, o Offer)
	}{
		{
			name: "newPrice folds into price",
			raw:  `{"id":"o-1","title":"Cut","city":"Praha","newPrice":"450 Kč"}`,
			check: func(t *testing.T, o Offer) {
				if o.Price != "450 Kč" {
					t.Errorf("Price = %q, want 450 Kč", o.Price)
				}
				if o.LegacyNewPrice != "" {
					t.Errorf("legacy alias not cleared: %q", o.LegacyNewPrice)
				}
			},
		},
		{
			name: "price wins over newPrice",
			raw:  `{"id":"o-2","title":"Cut","city":"Praha","price":"300 Kč","newPrice":"450 Kč"}`,
			check: func(t *testing.T, o Offer) {
				if o.Price != "300 Kč" {
					t.Errorf("Price = %q, want 300 Kč", o.Price)
				}
			},
		},
		{
			name: "promo folds into discount",
			raw:  `{"id":"o-3","title":"Menu","city":"Brno","promo":"-20%"}`,
			check: func(t *testing.T, o Offer) {
				if o.Discount != "-20%" {
					t.Errorf("Discount = %q, want -20%%", o.Discount)
				}
			},
		},
		{
			name: "single image folds into images",
			raw:  `{"id":"o-4","title":"Room","city":"Plzeň","image":"a.jpg"}`,
			check: func(t *testing.T, o Offer) {
				if len(o.Images) != 1 || o.Images[0] != "a.jpg" {
					t.Errorf("Images = %v, want [a.jpg]", o.Images)
				}
			},
		},
		{
			name: "cover index clamped to range",
			raw:  `{"id":"o-5","title":"Room","city":"Plzeň","images":["a.jpg"],"coverIndex":4}`,
			check: func(t *testing.T, o Offer) {
				if o.CoverIndex != 0 {
					t.Errorf("CoverIndex = %d, want 0", o.CoverIndex)
				}
			},
		},
		{
			name: "defaults applied for empty mode and status",
			raw:  `{"id":"o-6","title":"Room","city":"Plzeň"}`,
			check: func(t *testing.T, o Offer) {
				if o.AudienceMode != AudiencePublic {
					t.Errorf("AudienceMode = %q, want PUBLIC", o.AudienceMode)
				}
				if o.Status != StatusDraft {
					t.Errorf("Status = %q, want draft", o.Status)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Offer
			if err := json.Unmarshal([]byte(tt.raw), &o); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			o.Normalize()
			tt.check(t, o)

			// Normalize is idempotent.
			before := o
			o.Normalize()
			if o.Price != before.Price || o.Discount != before.Discount || len(o.Images) != len(before.Images) {
				t.Error("Normalize is not idempotent")
			}
		})
	}
}

func TestEffectivePublishedAt(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	published := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	o := Offer{CreatedAt: created}
	if got := o.EffectivePublishedAt(); !got.Equal(created) {
		t.Errorf("without publishedAt: got %v, want createdAt", got)
	}

	o.PublishedAt = &published
	if got := o.EffectivePublishedAt(); !got.Equal(published) {
		t.Errorf("with publishedAt: got %v, want publishedAt", got)
	}
}

func TestMatchesText(t *testing.T) {
	o := Offer{
		Title:    "Víkendový wellness pobyt",
		Provider: "Hotel Koruna",
		City:     "Liberec",
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"wellness", true},
		{"WELLNESS", true},
		{"koruna", true},
		{"liberec", true},
		{"pizza", false},
	}

	for _, tt := range tests {
		if got := o.MatchesText(tt.query); got != tt.want {
			t.Errorf("MatchesText(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestClientHasAnyTag(t *testing.T) {
	c := Client{Tags: []string{"vip", " stálý zákazník "}}

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"match", []string{"vip"}, true},
		{"match after trim", []string{"stálý zákazník"}, true},
		{"no overlap", []string{"novinky"}, false},
		{"empty wanted set", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HasAnyTag(tt.tags); got != tt.want {
				t.Errorf("HasAnyTag(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}

	empty := Client{}
	if empty.HasAnyTag([]string{"vip"}) {
		t.Error("client without tags must never match")
	}
}

func TestThreadRecountUnread(t *testing.T) {
	th := MessageThread{
		Messages: []MessageItem{
			{Author: AuthorProvider, Read: false},
			{Author: AuthorClient, Read: false},
			{Author: AuthorClient, Read: true},
			{Author: AuthorClient, Read: false},
		},
		UnreadForProvider: 99,
	}
	th.RecountUnread()
	if th.UnreadForProvider != 2 {
		t.Errorf("UnreadForProvider = %d, want 2", th.UnreadForProvider)
	}
}

func TestInviteState(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	redeemed := now.Add(-time.Hour)

	tests := []struct {
		name   string
		invite Invite
		want   InviteState
	}{
		{
			"pending before expiry",
			Invite{ExpiresAt: now.Add(time.Hour)},
			InvitePending,
		},
		{
			"expired after deadline",
			Invite{ExpiresAt: now.Add(-time.Minute)},
			InviteExpired,
		},
		{
			"redeemed wins over expiry",
			Invite{ExpiresAt: now.Add(-time.Minute), RedeemedAt: &redeemed},
			InviteRedeemed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.invite.State(now); got != tt.want {
				t.Errorf("State = %q, want %q", got, tt.want)
			}
		})
	}
}
