// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package messaging implements provider-client message threads: creation,
// append, read acknowledgement and unread accounting, plus the periodic
// unread refresher that feeds the badge in the provider UI.
//
// Invariant: a thread's UnreadForProvider always equals its count of
// client-authored unread messages. Appending a client message increments
// it; MarkRead resets it and flips those messages to read.
package messaging

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aspeti/aspeti/internal/metrics"
	"github.com/aspeti/aspeti/internal/models"
	"github.com/aspeti/aspeti/internal/store"
)

// ErrValidationFailed marks messaging operations rejected by validation.
var ErrValidationFailed = errors.New("validation failed")

// Service manages message threads.
type Service struct {
	threads *store.Store[models.MessageThread]
	clients *store.Store[models.Client]
	now     func() time.Time
}

// NewService creates a messaging service. The client store is consulted
// only at thread creation; existing threads tolerate deleted clients.
func NewService(threads *store.Store[models.MessageThread], clients *store.Store[models.Client]) *Service {
	return &Service{threads: threads, clients: clients, now: time.Now}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns all threads sorted by last activity, newest first.
func (s *Service) List() []models.MessageThread {
	threads := s.threads.List()
	sort.SliceStable(threads, func(a, b int) bool {
		return threads[a].LastUpdatedAt.After(threads[b].LastUpdatedAt)
	})
	return threads
}

// Get returns one thread or store.ErrNotFound.
func (s *Service) Get(id string) (models.MessageThread, error) {
	return s.threads.Get(id)
}

// CreateThread opens a conversation with a client. It fails with
// store.ErrNotFound when the client id does not resolve and with
// ErrValidationFailed on an empty subject; neither failure mutates
// anything.
func (s *Service) CreateThread(clientID, subject string) (models.MessageThread, error) {
	if strings.TrimSpace(subject) == "" {
		return models.MessageThread{}, fmt.Errorf("%w: subject must not be empty", ErrValidationFailed)
	}
	if _, err := s.clients.Get(clientID); err != nil {
		return models.MessageThread{}, fmt.Errorf("client %s: %w", clientID, err)
	}

	thread := models.MessageThread{
		ClientID:      clientID,
		Subject:       subject,
		Status:        models.ThreadOpen,
		LastUpdatedAt: s.now(),
	}

	created, err := s.threads.Upsert(thread)
	if err != nil {
		return models.MessageThread{}, err
	}

	metrics.ThreadsCreated.Inc()
	return created, nil
}

// AppendMessage adds a message to a thread in arrival order and bumps
// LastUpdatedAt. Client-authored messages increment the thread's unread
// counter; provider-authored ones do not.
func (s *Service) AppendMessage(threadID string, author models.MessageAuthor, text string) (models.MessageItem, error) {
	if strings.TrimSpace(text) == "" {
		return models.MessageItem{}, fmt.Errorf("%w: message text must not be empty", ErrValidationFailed)
	}
	if author != models.AuthorProvider && author != models.AuthorClient {
		return models.MessageItem{}, fmt.Errorf("%w: unknown author %q", ErrValidationFailed, author)
	}

	item := models.MessageItem{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
	}

	_, err := s.threads.Update(threadID, func(t *models.MessageThread) error {
		t.Messages = append(t.Messages, item)
		t.LastUpdatedAt = item.CreatedAt
		if author == models.AuthorClient {
			t.UnreadForProvider++
		}
		return nil
	})
	if err != nil {
		return models.MessageItem{}, err
	}

	return item, nil
}

// MarkRead acknowledges a thread: unread drops to zero and every
// client-authored message flips to read. Other threads are untouched.
func (s *Service) MarkRead(threadID string) error {
	_, err := s.threads.Update(threadID, func(t *models.MessageThread) error {
		for i := range t.Messages {
			if t.Messages[i].Author == models.AuthorClient {
				t.Messages[i].Read = true
			}
		}
		t.UnreadForProvider = 0
		return nil
	})
	return err
}

// Close marks a thread closed. Closed threads still accept MarkRead and
// reads; appending reopens nothing.
func (s *Service) Close(threadID string) error {
	_, err := s.threads.Update(threadID, func(t *models.MessageThread) error {
		t.Status = models.ThreadClosed
		return nil
	})
	return err
}

// Reopen reverses Close.
func (s *Service) Reopen(threadID string) error {
	_, err := s.threads.Update(threadID, func(t *models.MessageThread) error {
		t.Status = models.ThreadOpen
		return nil
	})
	return err
}

// TotalUnread sums UnreadForProvider across all threads.
func (s *Service) TotalUnread() int {
	total := 0
	for _, t := range s.threads.List() {
		total += t.UnreadForProvider
	}
	return total
}
