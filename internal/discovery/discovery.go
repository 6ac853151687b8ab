// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package discovery implements the offer discovery pipeline: the fixed
// sequence of filters and rankings that turns the offer collection plus
// query constraints into the segmented VIP/standard feed.
//
// Discover never returns an error. An unmatched query yields empty
// segments with TotalCount 0.
package discovery

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/aspeti/aspeti/internal/audience"
	"github.com/aspeti/aspeti/internal/geo"
	"github.com/aspeti/aspeti/internal/metrics"
	"github.com/aspeti/aspeti/internal/models"
)

// SortMode selects the standard-segment ordering.
type SortMode string

// Supported sort modes. VIP ranking is fixed and unaffected by SortMode.
const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "priceAsc"
	SortDiscount  SortMode = "discount"
)

// Query carries the discovery constraints.
type Query struct {
	// Text filters by case-insensitive substring over title, provider
	// and city.
	Text string

	// Category filters to one category; empty or "all" disables it.
	Category string

	// Address names a city resolved through the geo table. The geo
	// filter activates only when both Address resolves and RadiusKm is
	// positive.
	Address  string
	RadiusKm int

	// Sort orders the standard segment. Defaults to SortRelevance.
	Sort SortMode

	// Viewer is the requesting client, nil for anonymous. The public
	// feed always queries with nil.
	Viewer *models.Client
}

// Result is the segmented feed.
//
// TotalCount always equals len(VIP) + len(Standard); callers must use it
// as-is instead of recounting, so a displayed badge can never drift from
// the rendered segments.
type Result struct {
	VIP        []models.Offer
	Standard   []models.Offer
	TotalCount int
}

// Counts is pushed to observers after every Discover call.
type Counts struct {
	Total    int
	VIP      int
	Standard int
}

// OfferSource provides the offer collection. *store.Store[models.Offer]
// satisfies it.
type OfferSource interface {
	List() []models.Offer
}

// Pipeline runs discovery queries against an offer source.
type Pipeline struct {
	offers OfferSource
	now    func() time.Time

	mu        sync.Mutex
	observers []func(Counts)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source. Tests use it to pin NEW windowing.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline over the given offer source.
func New(offers OfferSource, opts ...Option) *Pipeline {
	p := &Pipeline{offers: offers, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers an observer that receives result counts after every
// Discover call. Observers run synchronously on the querying goroutine.
func (p *Pipeline) Subscribe(fn func(Counts)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Discover runs the pipeline stages in fixed order: eligibility (status and
// audience), category, text, geo, segmentation, top annotation, VIP
// ranking, standard ranking.
func (p *Pipeline) Discover(q Query) Result {
	start := time.Now()
	if q.Sort == "" {
		q.Sort = SortRelevance
	}

	now := p.now()
	surviving := p.filter(q, now)

	// Segmentation preserves the source order within each segment. Both
	// segments are non-nil so the feed serializes them as arrays.
	vip := make([]models.Offer, 0)
	standard := make([]models.Offer, 0)
	for _, o := range surviving {
		if o.VIP {
			vip = append(vip, o)
		} else {
			standard = append(standard, o)
		}
	}

	annotateTop(standard)
	rankVIP(vip, now)
	rankStandard(standard, q.Sort)

	res := Result{
		VIP:        vip,
		Standard:   standard,
		TotalCount: len(vip) + len(standard),
	}

	p.notify(Counts{Total: res.TotalCount, VIP: len(vip), Standard: len(standard)})
	metrics.RecordDiscovery(string(q.Sort), time.Since(start), len(vip), len(standard))

	return res
}

// filter applies the eligibility, category, text and geo stages and stamps
// the informational NEW flag on surviving copies.
func (p *Pipeline) filter(q Query, now time.Time) []models.Offer {
	queryCoords, geoActive := models.LatLng{}, false
	if q.Address != "" && q.RadiusKm > 0 {
		if coords, ok := geo.CoordinatesFor(q.Address); ok {
			queryCoords, geoActive = coords, true
		}
	}

	var out []models.Offer
	for _, o := range p.offers.List() {
		if o.Status != models.StatusPublished {
			continue
		}
		if !audience.Visible(o, q.Viewer) {
			continue
		}
		if q.Category != "" && q.Category != "all" && string(o.Category) != q.Category {
			continue
		}
		if !o.MatchesText(q.Text) {
			continue
		}
		if geoActive {
			// Once the geo filter is active, offers without
			// coordinates are excluded.
			if o.Coords == nil {
				continue
			}
			if geo.DistanceKm(queryCoords, *o.Coords) > float64(q.RadiusKm) {
				continue
			}
		}

		o.Top = false
		o.New = isNew(o, now)
		out = append(out, o)
	}
	return out
}

// isNew applies the category-dependent freshness window: 3 days for
// real-estate and trades, 1 day for everything else.
func isNew(o models.Offer, now time.Time) bool {
	window := 1.0
	if o.Category == models.CategoryRealEstate || o.Category == models.CategoryTrades {
		window = 3.0
	}
	return daysSince(now, o.EffectivePublishedAt()) <= window
}

// annotateTop marks the most-clicked standard offers. The annotation is
// computed over the full standard set before any re-sort and does not
// change the slice order.
func annotateTop(standard []models.Offer) {
	if len(standard) == 0 {
		return
	}

	n := int(math.Round(0.2 * float64(len(standard))))
	if n < 1 {
		n = 1
	}
	if n > 6 {
		n = 6
	}

	byClicks := make([]int, len(standard))
	for i := range byClicks {
		byClicks[i] = i
	}
	sort.SliceStable(byClicks, func(a, b int) bool {
		return standard[byClicks[a]].Clicks > standard[byClicks[b]].Clicks
	})

	for _, idx := range byClicks[:n] {
		standard[idx].Top = true
	}
}

// rankVIP orders the VIP segment by descending discount magnitude, ties
// broken by freshness (most recently published first).
func rankVIP(vip []models.Offer, now time.Time) {
	sort.SliceStable(vip, func(a, b int) bool {
		da, db := ParseDiscount(vip[a].Discount), ParseDiscount(vip[b].Discount)
		if da != db {
			return da > db
		}
		return daysSince(now, vip[a].EffectivePublishedAt()) < daysSince(now, vip[b].EffectivePublishedAt())
	})
}

// rankStandard orders the standard segment per the requested sort mode.
// Relevance keeps the source order untouched.
func rankStandard(standard []models.Offer, mode SortMode) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(standard, func(a, b int) bool {
			return ParsePrice(standard[a].Price) < ParsePrice(standard[b].Price)
		})
	case SortDiscount:
		sort.SliceStable(standard, func(a, b int) bool {
			return ParseDiscount(standard[a].Discount) > ParseDiscount(standard[b].Discount)
		})
	}
}

// notify pushes counts to all registered observers.
func (p *Pipeline) notify(c Counts) {
	p.mu.Lock()
	observers := make([]func(Counts), len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(c)
	}
}
