// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package metrics provides Prometheus instrumentation for the marketplace:
// discovery query throughput and latency, store mutations, messaging unread
// depth, and HTTP request accounting. All collectors register through
// promauto on the default registry and are exposed at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Discovery pipeline metrics
	DiscoveryQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aspeti_discovery_queries_total",
			Help: "Total number of discovery queries by sort mode",
		},
		[]string{"sort"},
	)

	DiscoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aspeti_discovery_duration_seconds",
			Help:    "Duration of discovery pipeline runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DiscoveryResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aspeti_discovery_result_size",
			Help:    "Number of offers returned per discovery query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"tier"}, // "vip", "standard"
	)

	// Store metrics
	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aspeti_store_mutations_total",
			Help: "Total number of store mutations by collection and kind",
		},
		[]string{"store", "kind"},
	)

	StoreDegraded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aspeti_store_degraded",
			Help: "1 when a store is serving without working persistence",
		},
		[]string{"store"},
	)

	// Messaging metrics
	UnreadMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aspeti_unread_messages",
			Help: "Current total of unread client messages across all threads",
		},
	)

	ThreadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aspeti_threads_created_total",
			Help: "Total number of message threads created",
		},
	)

	// Invite metrics
	InviteRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aspeti_invite_redemptions_total",
			Help: "Total invite redemption attempts by outcome",
		},
		[]string{"outcome"}, // "redeemed", "expired", "already_redeemed", "not_found"
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aspeti_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aspeti_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordDiscovery records one pipeline run.
func RecordDiscovery(sort string, duration time.Duration, vipCount, standardCount int) {
	DiscoveryQueries.WithLabelValues(sort).Inc()
	DiscoveryDuration.Observe(duration.Seconds())
	DiscoveryResultSize.WithLabelValues("vip").Observe(float64(vipCount))
	DiscoveryResultSize.WithLabelValues("standard").Observe(float64(standardCount))
}

// RecordStoreMutation records one insert, update or remove on a collection.
func RecordStoreMutation(store, kind string) {
	StoreMutations.WithLabelValues(store, kind).Inc()
}

// SetStoreDegraded flags a store's persistence health.
func SetStoreDegraded(store string, degraded bool) {
	v := 0.0
	if degraded {
		v = 1.0
	}
	StoreDegraded.WithLabelValues(store).Set(v)
}

// SetUnreadTotal updates the unread messages gauge.
func SetUnreadTotal(n int) {
	UnreadMessages.Set(float64(n))
}

// RecordInviteRedemption records one redemption attempt outcome.
func RecordInviteRedemption(outcome string) {
	InviteRedemptions.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
