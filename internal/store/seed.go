// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package store

import (
	"time"

	"github.com/aspeti/aspeti/internal/models"
)

// seedBase anchors seed timestamps so the demo data set is stable.
var seedBase = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func seedTime(days int) time.Time {
	return seedBase.AddDate(0, 0, days)
}

func seedTimePtr(days int) *time.Time {
	t := seedTime(days)
	return &t
}

// SeedOffers returns the baked-in demo offer set used when the backend has
// no data or cannot be read. All records are already normalized.
func SeedOffers() []models.Offer {
	return []models.Offer{
		{
			ID:           "seed-offer-1",
			Provider:     "Salon Květa",
			Title:        "Dámský střih a foukaná",
			Description:  "Kompletní péče včetně mytí a stylingu.",
			Tags:         []string{"vlasy", "střih"},
			Category:     models.CategoryBeauty,
			City:         "Praha",
			Coords:       &models.LatLng{Lat: 50.0755, Lng: 14.4378},
			Price:        "650 Kč",
			OldPrice:     "850 Kč",
			Discount:     "-200 Kč",
			Images:       []string{"/img/seed/strih.jpg"},
			AudienceMode: models.AudiencePublic,
			Status:       models.StatusPublished,
			Clicks:       42,
			CreatedAt:    seedTime(0),
			PublishedAt:  seedTimePtr(2),
		},
		{
			ID:           "seed-offer-2",
			Provider:     "Bistro U Lípy",
			Title:        "Polední menu pro dva",
			Description:  "Dvě hlavní jídla a dezert.",
			Tags:         []string{"menu", "oběd"},
			Category:     models.CategoryGastro,
			City:         "Brno",
			Coords:       &models.LatLng{Lat: 49.1951, Lng: 16.6068},
			Price:        "390 Kč",
			Discount:     "-25%",
			VIP:          true,
			Images:       []string{"/img/seed/menu.jpg"},
			AudienceMode: models.AudiencePublic,
			Status:       models.StatusPublished,
			Clicks:       108,
			CreatedAt:    seedTime(1),
			PublishedAt:  seedTimePtr(3),
		},
		{
			ID:           "seed-offer-3",
			Provider:     "Penzion Hvězda",
			Title:        "Víkendový pobyt s polopenzí",
			Description:  "Dvě noci pro dva v Krkonoších.",
			Tags:         []string{"pobyt", "hory"},
			Category:     models.CategoryLodging,
			City:         "Liberec",
			Coords:       &models.LatLng{Lat: 50.7663, Lng: 15.0543},
			Price:        "3 200 Kč",
			OldPrice:     "4 100 Kč",
			Images:       []string{"/img/seed/penzion.jpg", "/img/seed/pokoj.jpg"},
			CoverIndex:   1,
			AudienceMode: models.AudienceClientsAll,
			Status:       models.StatusPublished,
			Clicks:       17,
			CreatedAt:    seedTime(2),
			PublishedAt:  seedTimePtr(4),
		},
		{
			ID:           "seed-offer-4",
			Provider:     "Elektro Novák",
			Title:        "Revize elektroinstalace se slevou",
			Category:     models.CategoryTrades,
			City:         "Praha",
			Coords:       &models.LatLng{Lat: 50.08, Lng: 14.44},
			Price:        "1 500 Kč",
			Discount:     "-10%",
			Images:       []string{"/img/seed/revize.jpg"},
			AudienceMode: models.AudienceClientsTags,
			AudienceTags: []string{"vip"},
			Status:       models.StatusPublished,
			Clicks:       5,
			CreatedAt:    seedTime(3),
			PublishedAt:  seedTimePtr(5),
		},
		{
			ID:           "seed-offer-5",
			Provider:     "Reality Vltava",
			Title:        "Byt 2+kk na Vinohradech",
			Category:     models.CategoryRealEstate,
			City:         "Praha",
			Price:        "8 900 000 Kč",
			Images:       []string{"/img/seed/byt.jpg"},
			AudienceMode: models.AudiencePublic,
			Status:       models.StatusDraft,
			CreatedAt:    seedTime(4),
		},
	}
}

// SeedClients returns the baked-in demo client set.
func SeedClients() []models.Client {
	return []models.Client{
		{
			ID:        "seed-client-1",
			Name:      "Jana Nováková",
			Email:     "jana.novakova@example.com",
			Phone:     "+420 601 123 456",
			Tags:      []string{"vip", "novinky"},
			Status:    models.ClientActive,
			DateAdded: seedTime(-30),
		},
		{
			ID:        "seed-client-2",
			Name:      "Petr Svoboda",
			Email:     "petr.svoboda@example.com",
			Tags:      []string{"novinky"},
			Status:    models.ClientActive,
			DateAdded: seedTime(-12),
		},
		{
			ID:        "seed-client-3",
			Name:      "Eva Dvořáková",
			Status:    models.ClientInactive,
			DateAdded: seedTime(-90),
		},
	}
}
