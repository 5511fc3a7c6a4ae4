// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics holds the Prometheus collectors exported by the gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crisis"

// Lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Metrics groups the collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	Lookups            *prometheus.CounterVec
	LookupDuration     prometheus.Histogram
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	EnrichBatchSize    prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, so tests and multiple
// servers in one process do not collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "place_lookups_total",
			Help:      "Place lookups by outcome and failure class.",
		}, []string{"outcome", "reason"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "place_lookup_duration_seconds",
			Help:      "Latency of place lookups.",
			Buckets:   prometheus.DefBuckets,
		}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Structured generation calls by schema and outcome.",
		}, []string{"schema", "outcome"}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of structured generation calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"schema"}),
		EnrichBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrich_batch_size",
			Help:      "Number of entities per enrichment fan-out.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.Lookups,
		m.LookupDuration,
		m.Generations,
		m.GenerationDuration,
		m.EnrichBatchSize,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLookup records one place lookup. A nil receiver is a no-op.
func (m *Metrics) ObserveLookup(outcome, reason string, d time.Duration) {
	if m == nil {
		return
	}

	m.Lookups.WithLabelValues(outcome, reason).Inc()
	m.LookupDuration.Observe(d.Seconds())
}

// ObserveGeneration records one generation call. A nil receiver is a no-op.
func (m *Metrics) ObserveGeneration(schema, outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.Generations.WithLabelValues(schema, outcome).Inc()
	m.GenerationDuration.WithLabelValues(schema).Observe(d.Seconds())
}

// ObserveBatch records the size of one enrichment fan-out. A nil receiver is a no-op.
func (m *Metrics) ObserveBatch(n int) {
	if m == nil {
		return
	}

	m.EnrichBatchSize.Observe(float64(n))
}
