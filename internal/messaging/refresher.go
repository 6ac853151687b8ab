// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/aspeti/aspeti/internal/logging"
	"github.com/aspeti/aspeti/internal/metrics"
)

// UnreadRefresher periodically recomputes the total unread count and pushes
// it to registered observers and the unread gauge. It implements
// suture.Service; the supervision tree owns its lifetime, so cancellation
// on teardown is guaranteed and no timer outlives the tree.
type UnreadRefresher struct {
	svc      *Service
	interval time.Duration

	mu        sync.Mutex
	observers []func(int)
	last      int
}

// NewUnreadRefresher creates a refresher ticking at the given interval.
func NewUnreadRefresher(svc *Service, interval time.Duration) *UnreadRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &UnreadRefresher{svc: svc, interval: interval, last: -1}
}

// Subscribe registers an observer for unread-count changes. Observers are
// called from the refresher goroutine, only when the count changes.
func (r *UnreadRefresher) Subscribe(fn func(int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Refresh recomputes the count once and notifies on change. The ticking
// loop calls it; handlers may call it directly after a mutation to avoid
// waiting a full interval.
func (r *UnreadRefresher) Refresh() int {
	total := r.svc.TotalUnread()
	metrics.SetUnreadTotal(total)

	r.mu.Lock()
	changed := total != r.last
	r.last = total
	observers := make([]func(int), len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	if changed {
		for _, fn := range observers {
			fn(total)
		}
	}
	return total
}

// Serve implements suture.Service. It refreshes immediately, then on every
// tick, and returns the context error on cancellation.
func (r *UnreadRefresher) Serve(ctx context.Context) error {
	logging.Debug().Dur("interval", r.interval).Msg("Unread refresher started")

	r.Refresh()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug().Msg("Unread refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Refresh()
		}
	}
}

// String names the service in supervisor logs.
func (r *UnreadRefresher) String() string {
	return "unread-refresher"
}
