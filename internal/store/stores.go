// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package store

import (
	"github.com/aspeti/aspeti/internal/metrics"
	"github.com/aspeti/aspeti/internal/models"
)

// Collection names double as backend keys.
const (
	CollectionOffers  = "offers"
	CollectionClients = "clients"
	CollectionThreads = "threads"
	CollectionInvites = "invites"
)

// Stores bundles the four marketplace collections over one backend.
type Stores struct {
	Offers  *Store[models.Offer]
	Clients *Store[models.Client]
	Threads *Store[models.MessageThread]
	Invites *Store[models.Invite]

	backend Backend
}

// NewStores wires the marketplace collections to the given backend, with
// seed data as the load-failure fallback for offers and clients.
func NewStores(backend Backend) *Stores {
	return &Stores{
		Offers: New(Config[models.Offer]{
			Name:    CollectionOffers,
			Backend: backend,
			GetID:   func(o models.Offer) string { return o.ID },
			SetID:   func(o *models.Offer, id string) { o.ID = id },
			Normalize: func(o *models.Offer) {
				o.Normalize()
			},
			Seed: SeedOffers(),
		}),
		Clients: New(Config[models.Client]{
			Name:    CollectionClients,
			Backend: backend,
			GetID:   func(c models.Client) string { return c.ID },
			SetID:   func(c *models.Client, id string) { c.ID = id },
			Normalize: func(c *models.Client) {
				if c.Status == "" {
					c.Status = models.ClientActive
				}
			},
			Seed: SeedClients(),
		}),
		Threads: New(Config[models.MessageThread]{
			Name:    CollectionThreads,
			Backend: backend,
			GetID:   func(t models.MessageThread) string { return t.ID },
			SetID:   func(t *models.MessageThread, id string) { t.ID = id },
			Normalize: func(t *models.MessageThread) {
				if t.Status == "" {
					t.Status = models.ThreadOpen
				}
				t.RecountUnread()
			},
			Seed: nil,
		}),
		Invites: New(Config[models.Invite]{
			Name:    CollectionInvites,
			Backend: backend,
			GetID:   func(i models.Invite) string { return i.Code },
			SetID:   func(i *models.Invite, code string) { i.Code = code },
			Seed:    nil,
		}),
		backend: backend,
	}
}

// Close releases the underlying backend.
func (s *Stores) Close() error {
	return s.backend.Close()
}

// ReportHealth pushes per-store degradation state to the metrics gauges.
func (s *Stores) ReportHealth() {
	metrics.SetStoreDegraded(CollectionOffers, s.Offers.Degraded())
	metrics.SetStoreDegraded(CollectionClients, s.Clients.Degraded())
	metrics.SetStoreDegraded(CollectionThreads, s.Threads.Degraded())
	metrics.SetStoreDegraded(CollectionInvites, s.Invites.Degraded())
}

// Healthy reports whether every store has working persistence.
func (s *Stores) Healthy() bool {
	return !s.Offers.Degraded() && !s.Clients.Degraded() &&
		!s.Threads.Degraded() && !s.Invites.Degraded()
}
