// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Backend persists whole collections as opaque JSON blobs, one blob per
// store name. Stores load lazily on first access and save after every
// mutation, so backends see full-collection writes only.
type Backend interface {
	// Load returns the stored blob for the named collection, or
	// (nil, nil) when the collection has never been saved.
	Load(name string) ([]byte, error)

	// Save replaces the stored blob for the named collection.
	Save(name string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// keyPrefix namespaces collection blobs inside the badger keyspace.
const keyPrefix = "collection:"

// BadgerBackend persists collections in an embedded BadgerDB, one key per
// collection.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend opens (or creates) a badger database at path.
func NewBadgerBackend(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open badger at %s: %w", ErrStorageUnavailable, path, err)
	}

	return &BadgerBackend{db: db}, nil
}

// Load implements Backend.
func (b *BadgerBackend) Load(name string) ([]byte, error) {
	var data []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrStorageUnavailable, name, err)
	}

	return data, nil
}

// Save implements Backend.
func (b *BadgerBackend) Save(name string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+name), data)
	})
	if err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStorageUnavailable, name, err)
	}
	return nil
}

// Close implements Backend.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

// MemoryBackend keeps collections in process memory. Used by tests and as
// the fallback when no durable path is configured.
type MemoryBackend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

// Load implements Backend.
func (m *MemoryBackend) Load(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save implements Backend.
func (m *MemoryBackend) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[name] = stored
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	return nil
}

// UnavailableBackend fails every operation with the recorded cause. Used
// when the configured backend cannot be opened: stores then serve seed
// data, accept in-memory mutations and report themselves degraded.
type UnavailableBackend struct {
	cause error
}

// NewUnavailableBackend wraps the open failure as a permanently failing
// backend.
func NewUnavailableBackend(cause error) *UnavailableBackend {
	return &UnavailableBackend{cause: cause}
}

// Load implements Backend.
func (u *UnavailableBackend) Load(name string) ([]byte, error) {
	return nil, fmt.Errorf("%w: load %s: %w", ErrStorageUnavailable, name, u.cause)
}

// Save implements Backend.
func (u *UnavailableBackend) Save(name string, data []byte) error {
	return fmt.Errorf("%w: save %s: %w", ErrStorageUnavailable, name, u.cause)
}

// Close implements Backend.
func (u *UnavailableBackend) Close() error {
	return nil
}
