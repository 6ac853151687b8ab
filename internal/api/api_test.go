// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/aspeti/aspeti/internal/discovery"
	"github.com/aspeti/aspeti/internal/invites"
	"github.com/aspeti/aspeti/internal/messaging"
	"github.com/aspeti/aspeti/internal/models"
	"github.com/aspeti/aspeti/internal/offers"
	"github.com/aspeti/aspeti/internal/store"
)

type testEnv struct {
	handler http.Handler
	stores  *store.Stores
	clock   *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stores := store.NewStores(store.NewMemoryBackend())
	clock := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	pipeline := discovery.New(stores.Offers, discovery.WithClock(now))
	offerSvc := offers.NewService(stores.Offers).WithClock(now)
	messagingSvc := messaging.NewService(stores.Threads, stores.Clients).WithClock(now)
	refresher := messaging.NewUnreadRefresher(messagingSvc, time.Minute)
	inviteSvc := invites.NewService(stores.Invites).WithClock(now)

	rt := New(Config{}, stores, pipeline, offerSvc, messagingSvc, refresher, inviteSvc)

	return &testEnv{handler: rt.Handler(), stores: stores, clock: &clock}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var env models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeEnvelope(t, rec); got.Status != "success" {
		t.Errorf("envelope status = %q", got.Status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestFeedServesSeedData(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/feed", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var feed models.FeedResult
	decodeData(t, rec, &feed)

	if feed.TotalCount != len(feed.VIP)+len(feed.Standard) {
		t.Errorf("totalCount = %d, want %d", feed.TotalCount, len(feed.VIP)+len(feed.Standard))
	}
	// The seed set has published PUBLIC offers; the anonymous feed must
	// not be empty, and no draft may leak.
	if feed.TotalCount == 0 {
		t.Error("anonymous feed empty, expected seed offers")
	}
	for _, o := range append(feed.VIP, feed.Standard...) {
		if o.Status != models.StatusPublished {
			t.Errorf("offer %s has status %q in feed", o.ID, o.Status)
		}
		if o.AudienceMode != models.AudiencePublic {
			t.Errorf("offer %s with mode %q leaked to anonymous feed", o.ID, o.AudienceMode)
		}
	}
}

func TestFeedEmptySegmentsSerializeAsArrays(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/feed?text=nothing+matches+this", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"vip":[]`) || !strings.Contains(body, `"standard":[]`) {
		t.Errorf("empty segments not serialized as arrays: %s", body)
	}
}

func TestFeedViewerParameter(t *testing.T) {
	env := newTestEnv(t)

	anon := env.do(t, http.MethodGet, "/api/v1/feed", nil)
	var anonFeed models.FeedResult
	decodeData(t, anon, &anonFeed)

	// seed-client-1 is active with the vip tag, so CLIENTS_* seed offers
	// become visible.
	viewer := env.do(t, http.MethodGet, "/api/v1/feed?viewer=seed-client-1", nil)
	var viewerFeed models.FeedResult
	decodeData(t, viewer, &viewerFeed)

	if viewerFeed.TotalCount <= anonFeed.TotalCount {
		t.Errorf("viewer feed (%d) not larger than anonymous feed (%d)",
			viewerFeed.TotalCount, anonFeed.TotalCount)
	}
}

func TestOfferLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/offers", models.Offer{
		Title:  "Nová nabídka",
		City:   "Praha",
		Images: []string{"a.jpg"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Offer
	decodeData(t, rec, &created)
	if created.ID == "" {
		t.Fatal("created offer has no id")
	}

	rec = env.do(t, http.MethodPost, "/api/v1/offers/"+created.ID+"/publish", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d: %s", rec.Code, rec.Body.String())
	}
	var published models.Offer
	decodeData(t, rec, &published)
	if published.Status != models.StatusPublished || published.PublishedAt == nil {
		t.Errorf("publish result: status=%q publishedAt=%v", published.Status, published.PublishedAt)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/offers/"+created.ID+"/suspend", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suspend status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/offers/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/offers/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestPublishValidationOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/offers", models.Offer{
		Title:        "Bez obrázku",
		City:         "Praha",
		AudienceMode: models.AudienceClientsTags,
	})
	var created models.Offer
	decodeData(t, rec, &created)

	rec = env.do(t, http.MethodPost, "/api/v1/offers/"+created.ID+"/publish", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("publish status = %d, want 400", rec.Code)
	}
	env2 := decodeEnvelope(t, rec)
	if env2.Error == nil || env2.Error.Code != models.ErrCodeValidation {
		t.Errorf("error envelope = %+v, want VALIDATION_ERROR", env2.Error)
	}
}

func TestClientValidationOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/clients", models.Client{Email: "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/clients", models.Client{Name: "Nový klient"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.Client
	decodeData(t, rec, &created)
	if created.Status != models.ClientActive {
		t.Errorf("Status = %q, want active default", created.Status)
	}
}

func TestMessagingOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/threads", map[string]string{
		"clientId": "seed-client-1",
		"subject":  "Dotaz k nabídce",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create thread = %d: %s", rec.Code, rec.Body.String())
	}
	var thread models.MessageThread
	decodeData(t, rec, &thread)

	// Unknown client is a 404.
	rec = env.do(t, http.MethodPost, "/api/v1/threads", map[string]string{
		"clientId": "ghost",
		"subject":  "x",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown client = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/threads/"+thread.ID+"/messages", map[string]string{
		"author": "client",
		"text":   "Dobrý den",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("append = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/threads/unread-count", nil)
	var count map[string]int
	decodeData(t, rec, &count)
	if count["unread"] != 1 {
		t.Errorf("unread = %d, want 1", count["unread"])
	}

	rec = env.do(t, http.MethodPost, "/api/v1/threads/"+thread.ID+"/read", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/threads/unread-count", nil)
	decodeData(t, rec, &count)
	if count["unread"] != 0 {
		t.Errorf("unread after read = %d, want 0", count["unread"])
	}

	// Bad author is rejected by validation.
	rec = env.do(t, http.MethodPost, "/api/v1/threads/"+thread.ID+"/messages", map[string]string{
		"author": "bot",
		"text":   "hi",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad author = %d, want 400", rec.Code)
	}
}

func TestInvitesOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/invites", map[string]interface{}{
		"emailHint": "jana@example.com",
		"ttlHours":  24,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created inviteView
	decodeData(t, rec, &created)
	if created.State != models.InvitePending {
		t.Errorf("state = %q, want pending", created.State)
	}
	if created.Link != "aspeti://invite/"+created.Code {
		t.Errorf("link = %q", created.Link)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/invites/redeem", map[string]string{
		"code":     created.Code,
		"clientId": "seed-client-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("redeem = %d: %s", rec.Code, rec.Body.String())
	}

	// Second redemption conflicts.
	rec = env.do(t, http.MethodPost, "/api/v1/invites/redeem", map[string]string{
		"code":     created.Code,
		"clientId": "seed-client-2",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("double redeem = %d, want 409", rec.Code)
	}

	// Unknown code is a 404.
	rec = env.do(t, http.MethodPost, "/api/v1/invites/redeem", map[string]string{
		"code":     "nope",
		"clientId": "seed-client-1",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown code = %d, want 404", rec.Code)
	}
}

func TestExpiredInviteOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/invites", map[string]interface{}{"ttlHours": 24})
	var created inviteView
	decodeData(t, rec, &created)

	*env.clock = env.clock.Add(25 * time.Hour)

	rec = env.do(t, http.MethodPost, "/api/v1/invites/redeem", map[string]string{
		"code":     created.Code,
		"clientId": "seed-client-1",
	})
	if rec.Code != http.StatusGone {
		t.Errorf("expired redeem = %d, want 410", rec.Code)
	}
	env2 := decodeEnvelope(t, rec)
	if env2.Error == nil || env2.Error.Code != models.ErrCodeExpired {
		t.Errorf("error = %+v, want EXPIRED", env2.Error)
	}
}

func TestNearestCityEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cities/nearest?lat=50.1&lng=14.5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var city struct {
		Name string `json:"name"`
	}
	decodeData(t, rec, &city)
	if city.Name != "Praha" {
		t.Errorf("nearest = %q, want Praha", city.Name)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/cities/nearest?lat=999&lng=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out of range = %d, want 400", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/cities/nearest", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing params = %d, want 400", rec.Code)
	}
}
