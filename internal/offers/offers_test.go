// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package offers

import (
	"errors"
	"testing"
	"time"

	"github.com/aspeti/aspeti/internal/models"
	"github.com/aspeti/aspeti/internal/store"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	offers := store.NewStores(store.NewMemoryBackend()).Offers
	// Start from an empty collection, not the seed set.
	for _, o := range offers.List() {
		offers.Remove(o.ID)
	}
	return NewService(offers).WithClock(func() time.Time { return testNow })
}

func draft() models.Offer {
	return models.Offer{
		Title:  "Dámský střih",
		City:   "Praha",
		Images: []string{"a.jpg"},
	}
}

func TestSaveDefaults(t *testing.T) {
	s := newTestService(t)

	saved, err := s.Save(models.Offer{Title: "Incomplete draft"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected generated id")
	}
	if saved.Status != models.StatusDraft {
		t.Errorf("Status = %q, want draft", saved.Status)
	}
	if !saved.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want clock time", saved.CreatedAt)
	}
	if saved.AudienceMode != models.AudiencePublic {
		t.Errorf("AudienceMode = %q, want PUBLIC", saved.AudienceMode)
	}
}

func TestSaveCannotSmugglePublishedStatus(t *testing.T) {
	s := newTestService(t)

	// A request body claiming Published must not bypass Publish. The
	// offer here would fail publish validation twice over: no images and
	// an empty CLIENTS_TAGS selector.
	now := testNow
	saved, err := s.Save(models.Offer{
		Title:        "No images",
		City:         "Praha",
		Status:       models.StatusPublished,
		PublishedAt:  &now,
		Clicks:       99,
		AudienceMode: models.AudienceClientsTags,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Status != models.StatusDraft {
		t.Errorf("Status = %q, want draft", saved.Status)
	}
	if saved.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil", saved.PublishedAt)
	}
	if saved.Clicks != 0 {
		t.Errorf("Clicks = %d, want 0", saved.Clicks)
	}

	// Publish still rejects it until it becomes eligible.
	if _, err := s.Publish(saved.ID); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Publish err = %v, want ErrValidationFailed", err)
	}

	// Same for a non-empty id the store has never seen.
	stranger, err := s.Save(models.Offer{
		ID:     "imported-1",
		Title:  "Unknown id",
		City:   "Brno",
		Status: models.StatusPublished,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if stranger.Status != models.StatusDraft {
		t.Errorf("Status = %q, want draft for unknown id", stranger.Status)
	}
}

func TestSaveRejectsUnknownCategory(t *testing.T) {
	s := newTestService(t)

	_, err := s.Save(models.Offer{Title: "x", Category: "travel"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
}

func TestSavePreservesLifecycleFields(t *testing.T) {
	s := newTestService(t)

	saved, err := s.Save(draft())
	if err != nil {
		t.Fatal(err)
	}
	published, err := s.Publish(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RecordClick(saved.ID); err != nil {
		t.Fatal(err)
	}

	// Editing content must not unpublish or reset counters.
	edit := published
	edit.Title = "Dámský střih a foukaná"
	edit.Status = models.StatusDraft // client-sent status is ignored
	edit.Clicks = 0
	edited, err := s.Save(edit)
	if err != nil {
		t.Fatal(err)
	}

	if edited.Status != models.StatusPublished {
		t.Errorf("Status after edit = %q, want published", edited.Status)
	}
	if edited.PublishedAt == nil || !edited.PublishedAt.Equal(*published.PublishedAt) {
		t.Errorf("PublishedAt changed on edit")
	}
	if edited.Clicks != 1 {
		t.Errorf("Clicks = %d, want 1", edited.Clicks)
	}
	if edited.Title != "Dámský střih a foukaná" {
		t.Errorf("Title not updated: %q", edited.Title)
	}
}

func TestPublishStampsTimestamp(t *testing.T) {
	s := newTestService(t)

	saved, _ := s.Save(draft())
	published, err := s.Publish(saved.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Status != models.StatusPublished {
		t.Errorf("Status = %q, want published", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(testNow) {
		t.Errorf("PublishedAt = %v, want clock time", published.PublishedAt)
	}

	// Re-publishing keeps the original stamp.
	again, err := s.Publish(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.PublishedAt.Equal(testNow) {
		t.Errorf("PublishedAt changed on republish")
	}
}

func TestPublishValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Offer)
		wantOK bool
	}{
		{"complete offer", func(*models.Offer) {}, true},
		{"missing title", func(o *models.Offer) { o.Title = "" }, false},
		{"missing city", func(o *models.Offer) { o.City = "" }, false},
		{"no images", func(o *models.Offer) { o.Images = nil }, false},
		{
			"clients_tags without tags",
			func(o *models.Offer) { o.AudienceMode = models.AudienceClientsTags },
			false,
		},
		{
			"clients_tags with a tag",
			func(o *models.Offer) {
				o.AudienceMode = models.AudienceClientsTags
				o.AudienceTags = []string{"vip"}
			},
			true,
		},
		{
			"clients_selected without ids",
			func(o *models.Offer) { o.AudienceMode = models.AudienceClientsSelected },
			false,
		},
		{
			"clients_selected with an id",
			func(o *models.Offer) {
				o.AudienceMode = models.AudienceClientsSelected
				o.AudienceClientIDs = []string{"c-1"}
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			o := draft()
			tt.mutate(&o)

			saved, err := s.Save(o)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}

			_, err = s.Publish(saved.ID)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Publish: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}

			// A rejected publish mutates nothing.
			got, _ := s.Get(saved.ID)
			if got.Status != models.StatusDraft {
				t.Errorf("Status after failed publish = %q, want draft", got.Status)
			}
			if got.PublishedAt != nil {
				t.Error("PublishedAt set despite failed publish")
			}
		})
	}
}

func TestLifecycleTransitions(t *testing.T) {
	s := newTestService(t)
	saved, _ := s.Save(draft())

	approved, err := s.Approve(saved.ID)
	if err != nil || approved.Status != models.StatusApproved {
		t.Fatalf("Approve = %q, %v", approved.Status, err)
	}

	published, err := s.Publish(saved.ID)
	if err != nil || published.Status != models.StatusPublished {
		t.Fatalf("Publish = %q, %v", published.Status, err)
	}

	suspended, err := s.Suspend(saved.ID)
	if err != nil || suspended.Status != models.StatusSuspended {
		t.Fatalf("Suspend = %q, %v", suspended.Status, err)
	}

	// A suspended offer can come back.
	back, err := s.Publish(saved.ID)
	if err != nil || back.Status != models.StatusPublished {
		t.Fatalf("republish = %q, %v", back.Status, err)
	}
}

func TestRecordClick(t *testing.T) {
	s := newTestService(t)
	saved, _ := s.Save(draft())

	for i := 0; i < 3; i++ {
		if err := s.RecordClick(saved.ID); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := s.Get(saved.ID)
	if got.Clicks != 3 {
		t.Errorf("Clicks = %d, want 3", got.Clicks)
	}

	if err := s.RecordClick("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("click on missing offer: %v, want ErrNotFound", err)
	}
}

func TestOperationsOnMissingOffer(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Publish("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Publish: %v, want ErrNotFound", err)
	}
	if _, err := s.Suspend("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Suspend: %v, want ErrNotFound", err)
	}

	// Delete of an absent id is a no-op.
	s.Delete("missing")
}
