// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package audience decides offer visibility for a given viewer.
//
// Visibility depends only on the offer's audience mode and the viewer's
// identity and tags. A nil viewer is an anonymous visitor and never sees
// client-restricted offers.
package audience

import "github.com/aspeti/aspeti/internal/models"

// Visible reports whether viewer may see the offer.
//
// Decision table:
//
//	PUBLIC            everyone, including anonymous
//	CLIENTS_ALL       any active client
//	CLIENTS_TAGS      active clients sharing at least one audience tag
//	CLIENTS_SELECTED  clients whose id is explicitly listed
//
// An offer with CLIENTS_TAGS and an empty tag set, or CLIENTS_SELECTED and
// an empty id list, is visible to no one. Publish validation rejects such
// offers, but records from older data files may still carry them.
func Visible(o models.Offer, viewer *models.Client) bool {
	switch o.AudienceMode {
	case models.AudiencePublic, "":
		return true
	case models.AudienceClientsAll:
		return active(viewer)
	case models.AudienceClientsTags:
		return active(viewer) && viewer.HasAnyTag(o.AudienceTags)
	case models.AudienceClientsSelected:
		if viewer == nil {
			return false
		}
		for _, id := range o.AudienceClientIDs {
			if id == viewer.ID {
				return true
			}
		}
		return false
	default:
		// Unknown mode from a future or corrupt record: hide rather
		// than leak a restricted offer.
		return false
	}
}

// active treats a missing status as active; older client records carry no
// status field.
func active(c *models.Client) bool {
	return c != nil && (c.Status == models.ClientActive || c.Status == "")
}
