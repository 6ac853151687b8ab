// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package offers implements the offer lifecycle: draft editing, the
// publish transition with its eligibility validation, suspension, and
// click accounting.
//
// Lifecycle: Draft -> Approved -> Published -> Suspended. Publishing is the
// only guarded transition; it validates content and audience selectors and
// stamps PublishedAt. Validation failures never mutate the store.
package offers

import (
	"errors"
	"fmt"
	"time"

	"github.com/aspeti/aspeti/internal/logging"
	"github.com/aspeti/aspeti/internal/models"
	"github.com/aspeti/aspeti/internal/store"
	"github.com/aspeti/aspeti/internal/validation"
)

// ErrValidationFailed marks lifecycle operations rejected by validation.
// The wrapped message names the failing fields.
var ErrValidationFailed = errors.New("validation failed")

// Service manages the offer collection.
type Service struct {
	offers *store.Store[models.Offer]
	now    func() time.Time
}

// NewService creates an offer service over the given store.
func NewService(offers *store.Store[models.Offer]) *Service {
	return &Service{offers: offers, now: time.Now}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns all offers in insertion order.
func (s *Service) List() []models.Offer {
	return s.offers.List()
}

// Get returns one offer or store.ErrNotFound.
func (s *Service) Get(id string) (models.Offer, error) {
	return s.offers.Get(id)
}

// Save upserts an offer as editable content; drafts may be incomplete,
// full validation runs at publish time. Lifecycle fields never come from
// the request body: new records (empty or unknown id) are forced to Draft
// with no PublishedAt and zero clicks, and for existing records the stored
// values are preserved so editing a published offer does not unpublish it.
// Published is reachable only through Publish.
func (s *Service) Save(o models.Offer) (models.Offer, error) {
	if o.Category != "" && !models.ValidCategory(o.Category) {
		return models.Offer{}, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, o.Category)
	}

	o.Normalize()

	isNew := true
	if o.ID != "" {
		if existing, err := s.offers.Get(o.ID); err == nil {
			isNew = false
			o.Status = existing.Status
			o.PublishedAt = existing.PublishedAt
			o.Clicks = existing.Clicks
			o.CreatedAt = existing.CreatedAt
		}
	}
	if isNew {
		o.Status = models.StatusDraft
		o.PublishedAt = nil
		o.Clicks = 0
		if o.CreatedAt.IsZero() {
			o.CreatedAt = s.now()
		}
	}

	return s.offers.Upsert(o)
}

// publishChecks are the content requirements for the Published transition.
type publishChecks struct {
	Title  string   `validate:"required"`
	City   string   `validate:"required"`
	Images []string `validate:"min=1"`
}

// validatePublish enforces publish eligibility: content checks plus a
// non-empty selector for the audience-restricted modes.
func validatePublish(o models.Offer) error {
	if verr := validation.ValidateStruct(publishChecks{
		Title:  o.Title,
		City:   o.City,
		Images: o.Images,
	}); verr != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, verr.Error())
	}

	switch o.AudienceMode {
	case models.AudienceClientsTags:
		if len(o.AudienceTags) == 0 {
			return fmt.Errorf("%w: CLIENTS_TAGS requires at least one audience tag", ErrValidationFailed)
		}
	case models.AudienceClientsSelected:
		if len(o.AudienceClientIDs) == 0 {
			return fmt.Errorf("%w: CLIENTS_SELECTED requires at least one client", ErrValidationFailed)
		}
	}

	return nil
}

// Publish transitions an offer into Published, stamping PublishedAt. The
// transition is rejected when publish validation fails; a failed publish
// mutates nothing. Publishing an already published offer is a no-op that
// keeps the original PublishedAt.
func (s *Service) Publish(id string) (models.Offer, error) {
	return s.offers.Update(id, func(o *models.Offer) error {
		if err := validatePublish(*o); err != nil {
			return err
		}
		if o.Status == models.StatusPublished {
			return nil
		}
		now := s.now()
		o.Status = models.StatusPublished
		o.PublishedAt = &now

		logging.Info().Str("offer", o.ID).Str("title", o.Title).Msg("Offer published")
		return nil
	})
}

// Approve marks a draft as approved.
func (s *Service) Approve(id string) (models.Offer, error) {
	return s.offers.Update(id, func(o *models.Offer) error {
		o.Status = models.StatusApproved
		return nil
	})
}

// Suspend takes an offer out of the feed without deleting it.
func (s *Service) Suspend(id string) (models.Offer, error) {
	return s.offers.Update(id, func(o *models.Offer) error {
		o.Status = models.StatusSuspended
		return nil
	})
}

// RecordClick increments the click counter feeding the top annotation.
func (s *Service) RecordClick(id string) error {
	_, err := s.offers.Update(id, func(o *models.Offer) error {
		o.Clicks++
		return nil
	})
	return err
}

// Delete removes an offer. Deleting an absent id is a no-op.
func (s *Service) Delete(id string) {
	s.offers.Remove(id)
}
