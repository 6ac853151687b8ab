// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package store

import "errors"

// Sentinel errors returned by stores and backends.
var (
	// ErrNotFound is returned by Get when no record carries the given id.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable is returned by backends when the underlying
	// storage cannot be read or written. Stores degrade to seed data on
	// load failure instead of propagating this to readers.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
