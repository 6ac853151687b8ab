// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package models

import "time"

// APIResponse is the standard envelope for all JSON API responses.
//
// Success:
//
//	{"status": "success", "data": {...}, "metadata": {...}}
//
// Failure:
//
//	{"status": "error", "error": {"code": "NOT_FOUND", "message": "..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata *Metadata   `json:"metadata,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response-level information alongside the payload.
type Metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	Count      int       `json:"count,omitempty"`
	TotalCount int       `json:"totalCount,omitempty"`
}

// APIError describes a failed request in machine-readable form.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned by the API. These mirror the core error taxonomy.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeExpired            = "EXPIRED"
	ErrCodeAlreadyRedeemed    = "ALREADY_REDEEMED"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
)

// FeedResult is the discovery pipeline output serialized to feed consumers.
type FeedResult struct {
	VIP        []Offer `json:"vip"`
	Standard   []Offer `json:"standard"`
	TotalCount int     `json:"totalCount"`
}
