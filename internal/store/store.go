// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package store implements the generic keyed-record store backing all
// marketplace collections (offers, clients, threads, invites).
//
// Each Store owns one named collection, persisted as a single JSON array
// through a pluggable Backend. Collections are small (hundreds of records),
// so whole-collection serialization keeps the persistence model trivially
// consistent: every mutation rewrites the blob.
//
// A store is safe for concurrent use. One mutex serializes all access, which
// gives read-then-write call sequences single-writer semantics without any
// caller-side coordination.
package store

import (
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/aspeti/aspeti/internal/logging"
	"github.com/aspeti/aspeti/internal/metrics"
)

// Config wires a Store to its collection.
type Config[T any] struct {
	// Name is the collection name, used as the backend key.
	Name string

	// Backend persists the collection. Required.
	Backend Backend

	// GetID extracts the record key.
	GetID func(T) string

	// SetID writes a generated key into a record.
	SetID func(*T, string)

	// Normalize, when non-nil, is applied to every record once at load
	// time. Used to fold legacy field aliases and repair derived fields.
	Normalize func(*T)

	// Seed is the fallback dataset used when the backend has no data for
	// this collection or fails to load.
	Seed []T
}

// Store is an insertion-ordered collection of keyed records.
type Store[T any] struct {
	cfg Config[T]

	mu       sync.Mutex
	records  []T
	index    map[string]int
	loaded   bool
	degraded bool
}

// New creates a store. The backend is not touched until first access.
func New[T any](cfg Config[T]) *Store[T] {
	return &Store[T]{cfg: cfg}
}

// load populates the store from the backend, falling back to seed data on
// failure. Must be called with mu held.
func (s *Store[T]) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := s.cfg.Backend.Load(s.cfg.Name)
	switch {
	case err != nil:
		logging.Warn().Err(err).Str("store", s.cfg.Name).
			Msg("Backend load failed, falling back to seed data")
		s.degraded = true
		s.records = append([]T(nil), s.cfg.Seed...)
	case data == nil:
		s.records = append([]T(nil), s.cfg.Seed...)
	default:
		var recs []T
		if uerr := json.Unmarshal(data, &recs); uerr != nil {
			logging.Warn().Err(uerr).Str("store", s.cfg.Name).
				Msg("Stored collection is corrupt, falling back to seed data")
			s.degraded = true
			s.records = append([]T(nil), s.cfg.Seed...)
		} else {
			s.records = recs
		}
	}

	if s.cfg.Normalize != nil {
		for i := range s.records {
			s.cfg.Normalize(&s.records[i])
		}
	}

	s.index = make(map[string]int, len(s.records))
	for i := range s.records {
		s.index[s.cfg.GetID(s.records[i])] = i
	}
}

// persist writes the current collection through the backend. Failures are
// logged, not propagated: the in-memory mutation already happened and the
// store keeps serving it.
func (s *Store[T]) persist() {
	data, err := json.Marshal(s.records)
	if err != nil {
		logging.Error().Err(err).Str("store", s.cfg.Name).Msg("Collection marshal failed")
		return
	}
	if err := s.cfg.Backend.Save(s.cfg.Name, data); err != nil {
		s.degraded = true
		logging.Error().Err(err).Str("store", s.cfg.Name).Msg("Backend save failed")
		return
	}
	s.degraded = false
}

// List returns all records in insertion order. The slice is a copy; records
// are returned by value.
func (s *Store[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return s.records[i], nil
}

// Upsert inserts or replaces a record and persists the collection.
//
// An empty id gets a generated uuid and the record is appended. A non-empty
// id that matches an existing record replaces it in place, preserving its
// position. A non-empty id with no match is inserted as-is; callers that
// need strict update semantics check existence with Get first.
func (s *Store[T]) Upsert(rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	id := s.cfg.GetID(rec)
	if id == "" {
		id = uuid.NewString()
		s.cfg.SetID(&rec, id)
	}

	if i, ok := s.index[id]; ok {
		s.records[i] = rec
		metrics.RecordStoreMutation(s.cfg.Name, "update")
	} else {
		s.index[id] = len(s.records)
		s.records = append(s.records, rec)
		metrics.RecordStoreMutation(s.cfg.Name, "insert")
	}

	s.persist()
	return rec, nil
}

// Update applies fn to the record with the given id under the store lock
// and persists the result. Returns ErrNotFound if the id is unknown. The
// lock makes the read-modify-write atomic with respect to other callers.
func (s *Store[T]) Update(id string, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}

	rec := s.records[i]
	if err := fn(&rec); err != nil {
		var zero T
		return zero, err
	}

	s.records[i] = rec
	metrics.RecordStoreMutation(s.cfg.Name, "update")
	s.persist()
	return rec, nil
}

// Remove deletes the record with the given id. Removing an absent id is a
// no-op, not an error.
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	i, ok := s.index[id]
	if !ok {
		return
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.cfg.GetID(s.records[j])] = j
	}

	metrics.RecordStoreMutation(s.cfg.Name, "remove")
	s.persist()
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return len(s.records)
}

// Degraded reports whether the store is running without working
// persistence (seed fallback after a load failure, or a failed save).
func (s *Store[T]) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.degraded
}

// IsNotFound reports whether err is the store's not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
