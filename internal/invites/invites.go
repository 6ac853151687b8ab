// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package invites implements time-limited invite codes: issuance,
// single-use redemption and link rendering for the onboarding flow.
package invites

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aspeti/aspeti/internal/logging"
	"github.com/aspeti/aspeti/internal/metrics"
	"github.com/aspeti/aspeti/internal/models"
	"github.com/aspeti/aspeti/internal/store"
)

// Redemption failure taxonomy.
var (
	// ErrExpired means the code's validity window has passed.
	ErrExpired = errors.New("invite expired")

	// ErrAlreadyRedeemed means the code was consumed earlier.
	ErrAlreadyRedeemed = errors.New("invite already redeemed")
)

// codeBytes sizes the random invite code. 18 bytes encode to 24 URL-safe
// characters without padding.
const codeBytes = 18

// linkScheme prefixes rendered invite links consumed by the client app.
const linkScheme = "aspeti://invite/"

// Service manages invite codes.
type Service struct {
	invites *store.Store[models.Invite]
	now     func() time.Time
}

// NewService creates an invite service over the given store.
func NewService(invites *store.Store[models.Invite]) *Service {
	return &Service{invites: invites, now: time.Now}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// codePrefix returns the loggable head of a code. Codes are bearer
// credentials, so log lines never carry the full value.
func codePrefix(code string) string {
	const n = 6
	if len(code) <= n {
		return code
	}
	return code[:n] + "…"
}

// generateCode returns a cryptographically random URL-safe code.
func generateCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create issues a new invite valid for ttlHours from now. The email hint is
// informational only; redemption does not verify it.
func (s *Service) Create(emailHint string, ttlHours int) (models.Invite, error) {
	if ttlHours <= 0 {
		ttlHours = 24
	}

	code, err := generateCode()
	if err != nil {
		return models.Invite{}, err
	}

	now := s.now()
	invite := models.Invite{
		Code:      code,
		EmailHint: emailHint,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Duration(ttlHours) * time.Hour),
	}

	created, err := s.invites.Upsert(invite)
	if err != nil {
		return models.Invite{}, err
	}

	logging.Info().Str("code_prefix", codePrefix(code)).Int("ttl_hours", ttlHours).Msg("Invite created")
	return created, nil
}

// Redeem consumes an invite for the given client. It fails with
// store.ErrNotFound for an unknown code, ErrExpired at or past the
// deadline, and ErrAlreadyRedeemed on a second attempt. Failures mutate
// nothing.
func (s *Service) Redeem(code, clientID string) (models.Invite, error) {
	redeemed, err := s.invites.Update(code, func(inv *models.Invite) error {
		switch inv.State(s.now()) {
		case models.InviteRedeemed:
			return ErrAlreadyRedeemed
		case models.InviteExpired:
			return ErrExpired
		}
		now := s.now()
		inv.RedeemedAt = &now
		inv.RedeemedBy = clientID
		return nil
	})

	switch {
	case err == nil:
		metrics.RecordInviteRedemption("redeemed")
	case errors.Is(err, ErrExpired):
		metrics.RecordInviteRedemption("expired")
	case errors.Is(err, ErrAlreadyRedeemed):
		metrics.RecordInviteRedemption("already_redeemed")
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordInviteRedemption("not_found")
	}

	if err != nil {
		return models.Invite{}, err
	}
	return redeemed, nil
}

// List returns all invites, newest first.
func (s *Service) List() []models.Invite {
	invites := s.invites.List()
	sort.SliceStable(invites, func(a, b int) bool {
		return invites[a].IssuedAt.After(invites[b].IssuedAt)
	})
	return invites
}

// Link renders the deep link clients open to redeem a code.
func Link(code string) string {
	return linkScheme + code
}
