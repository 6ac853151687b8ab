// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package models defines the core data types shared across Aspeti: offers,
// clients, message threads, invites, and the API response envelope.
//
// All types are plain serializable records. Persistence formats are JSON;
// legacy field aliases from earlier data files (newPrice, promo, single image)
// are collapsed into canonical fields by Offer.Normalize, which every store
// applies once at read time.
package models

import (
	"strings"
	"time"
)

// Category identifies the vertical an offer belongs to.
type Category string

// Known offer categories.
const (
	CategoryBeauty     Category = "beauty"
	CategoryGastro     Category = "gastro"
	CategoryLodging    Category = "lodging"
	CategoryRealEstate Category = "realestate"
	CategoryTrades     Category = "trades"
)

// Categories lists all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryBeauty,
		CategoryGastro,
		CategoryLodging,
		CategoryRealEstate,
		CategoryTrades,
	}
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryBeauty, CategoryGastro, CategoryLodging, CategoryRealEstate, CategoryTrades:
		return true
	}
	return false
}

// OfferStatus is the lifecycle state of an offer.
type OfferStatus string

// Offer lifecycle states. Only Published offers are eligible for discovery.
const (
	StatusDraft     OfferStatus = "draft"
	StatusApproved  OfferStatus = "approved"
	StatusPublished OfferStatus = "published"
	StatusSuspended OfferStatus = "suspended"
)

// AudienceMode controls which viewers an offer is visible to.
type AudienceMode string

// Audience targeting modes.
const (
	// AudiencePublic makes the offer visible to everyone, including
	// anonymous viewers.
	AudiencePublic AudienceMode = "PUBLIC"

	// AudienceClientsAll restricts the offer to any registered client.
	AudienceClientsAll AudienceMode = "CLIENTS_ALL"

	// AudienceClientsTags restricts the offer to clients sharing at least
	// one tag with the offer's AudienceTags.
	AudienceClientsTags AudienceMode = "CLIENTS_TAGS"

	// AudienceClientsSelected restricts the offer to an explicit list of
	// client ids.
	AudienceClientsSelected AudienceMode = "CLIENTS_SELECTED"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// Offer is a single marketplace listing.
//
// Price, OldPrice and Discount are free-form display strings ("1 200 Kč",
// "-20%"); the discovery pipeline derives numeric ordering keys from them
// without ever mutating the stored values.
type Offer struct {
	ID          string   `json:"id"`
	ProviderID  string   `json:"providerId,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    Category `json:"category"`

	City    string  `json:"city"`
	Address string  `json:"address,omitempty"`
	Coords  *LatLng `json:"coords,omitempty"`

	Price    string `json:"price,omitempty"`
	OldPrice string `json:"oldPrice,omitempty"`
	Discount string `json:"discount,omitempty"`
	VIP      bool   `json:"vip,omitempty"`

	Images     []string `json:"images,omitempty"`
	CoverIndex int      `json:"coverIndex,omitempty"`

	AudienceMode      AudienceMode `json:"audienceMode,omitempty"`
	AudienceTags      []string     `json:"audienceTags,omitempty"`
	AudienceClientIDs []string     `json:"audienceClientIds,omitempty"`

	Status      OfferStatus `json:"status"`
	Clicks      int         `json:"clicks,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`

	// Top and New are per-query annotations computed by the discovery
	// pipeline. They are set on copies returned from Discover and are
	// never written back to storage.
	Top bool `json:"top,omitempty"`
	New bool `json:"new,omitempty"`

	// Legacy aliases retained for reading older data files. Normalize
	// folds them into the canonical fields above.
	LegacyNewPrice string `json:"newPrice,omitempty"`
	LegacyPromo    string `json:"promo,omitempty"`
	LegacyImage    string `json:"image,omitempty"`
}

// Normalize collapses legacy field aliases into canonical fields and repairs
// out-of-range values. It is idempotent and applied once when a collection is
// loaded from storage.
func (o *Offer) Normalize() {
	if o.Price == "" && o.LegacyNewPrice != "" {
		o.Price = o.LegacyNewPrice
	}
	o.LegacyNewPrice = ""

	if o.Discount == "" && o.LegacyPromo != "" {
		o.Discount = o.LegacyPromo
	}
	o.LegacyPromo = ""

	if len(o.Images) == 0 && o.LegacyImage != "" {
		o.Images = []string{o.LegacyImage}
	}
	o.LegacyImage = ""

	if o.CoverIndex < 0 || o.CoverIndex >= len(o.Images) {
		o.CoverIndex = 0
	}

	if o.AudienceMode == "" {
		o.AudienceMode = AudiencePublic
	}
	if o.Status == "" {
		o.Status = StatusDraft
	}
}

// EffectivePublishedAt returns the timestamp freshness calculations use:
// PublishedAt when set, otherwise CreatedAt.
func (o *Offer) EffectivePublishedAt() time.Time {
	if o.PublishedAt != nil {
		return *o.PublishedAt
	}
	return o.CreatedAt
}

// CoverImage returns the image selected as cover, or "" when the offer has
// no images.
func (o *Offer) CoverImage() string {
	if len(o.Images) == 0 {
		return ""
	}
	if o.CoverIndex >= 0 && o.CoverIndex < len(o.Images) {
		return o.Images[o.CoverIndex]
	}
	return o.Images[0]
}

// MatchesText reports whether the offer matches a free-text query. The match
// is case-insensitive substring over title, provider name and city. An empty
// query matches everything.
func (o *Offer) MatchesText(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.Title), q) ||
		strings.Contains(strings.ToLower(o.Provider), q) ||
		strings.Contains(strings.ToLower(o.City), q)
}
