// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package models

import (
	"strings"
	"time"
)

// ClientStatus is the activation state of a client record.
type ClientStatus string

// Client activation states.
const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Client is a registered customer of a provider. Tags drive CLIENTS_TAGS
// audience targeting.
type Client struct {
	ID        string       `json:"id"`
	Name      string       `json:"name" validate:"required"`
	Email     string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string       `json:"phone,omitempty"`
	Tags      []string     `json:"tags,omitempty"`
	Status    ClientStatus `json:"status,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	DateAdded time.Time    `json:"dateAdded"`
	LastSeen  *time.Time   `json:"lastSeen,omitempty"`
}

// HasAnyTag reports whether the client carries at least one of the given
// tags. Comparison is exact after trimming surrounding whitespace.
func (c *Client) HasAnyTag(tags []string) bool {
	if len(tags) == 0 || len(c.Tags) == 0 {
		return false
	}
	owned := make(map[string]struct{}, len(c.Tags))
	for _, t := range c.Tags {
		owned[strings.TrimSpace(t)] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := owned[strings.TrimSpace(t)]; ok {
			return true
		}
	}
	return false
}
