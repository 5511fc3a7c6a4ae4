// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package enrich attaches a place lookup result to every entity of a list,
// running the lookups concurrently.
package enrich

import (
	"context"
	"time"

	"github.com/jcodagnone/crisis/metrics"
	"github.com/jcodagnone/crisis/places"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Lookuper resolves a query to a place. Implementations never fail; every
// problem is reported as places.NotFound().
type Lookuper interface {
	Lookup(ctx context.Context, query string) places.Result
}

// LookupFunc adapts a function to Lookuper.
type LookupFunc func(ctx context.Context, query string) places.Result

// Lookup implements Lookuper.
func (f LookupFunc) Lookup(ctx context.Context, query string) places.Result {
	return f(ctx, query)
}

// Enriched pairs an entity with the place found for it.
type Enriched[T any] struct {
	Entity T
	Place  places.Result
}

// Stats summarizes one enrichment run.
type Stats struct {
	Total    int `json:"total"`
	Found    int `json:"found"`
	NotFound int `json:"not_found"`
}

// Options tunes the fan-out.
type Options struct {
	// MaxProcs bounds concurrent lookups. 0 runs one lookup per item at once.
	MaxProcs int
	// LookupTimeout caps every lookup. An expired lookup yields NotFound.
	LookupTimeout time.Duration
	// OnDone is called after each lookup completes, from the lookup goroutine.
	OnDone func()
	// Logger receives lookups that panicked. Nil discards them.
	Logger *zap.Logger
}

// Option configures a single Enrich call.
type Option func(*Options)

// WithMaxProcs bounds the number of concurrent lookups.
func WithMaxProcs(n int) Option {
	return func(o *Options) { o.MaxProcs = n }
}

// WithLookupTimeout caps each lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(o *Options) { o.LookupTimeout = d }
}

// WithLogger sets the logger used to report panicking lookups.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithProgress registers a callback invoked after each lookup.
func WithProgress(fn func()) Option {
	return func(o *Options) { o.OnDone = fn }
}

// Enrich looks up query(item) for every item and returns the results in
// input order. It waits for every lookup and never drops an item.
func Enrich[T any](ctx context.Context, lookuper Lookuper, items []T, query func(T) string, opts ...Option) []Enriched[T] {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	out := make([]Enriched[T], len(items))
	if len(items) == 0 {
		return out
	}

	limit := o.MaxProcs
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			lookupCtx := ctx
			if o.LookupTimeout > 0 {
				var cancel context.CancelFunc
				lookupCtx, cancel = context.WithTimeout(ctx, o.LookupTimeout)

				defer cancel()
			}

			out[i] = Enriched[T]{Entity: item, Place: lookup(lookupCtx, lookuper, query(item), o.Logger)}

			if o.OnDone != nil {
				o.OnDone()
			}

			return nil
		})
	}

	_ = g.Wait()

	return out
}

// lookup runs the lookup but returns NotFound as soon as ctx expires, even if
// the lookuper ignores cancellation.
func lookup(ctx context.Context, lookuper Lookuper, query string, logger *zap.Logger) places.Result {
	if ctx.Done() == nil {
		return safeLookup(ctx, lookuper, query, logger)
	}

	done := make(chan places.Result, 1)

	go func() {
		done <- safeLookup(ctx, lookuper, query, logger)
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return places.NotFound()
	}
}

// safeLookup turns a panicking lookup into NotFound so it cannot take the
// process down with it.
func safeLookup(ctx context.Context, lookuper Lookuper, query string, logger *zap.Logger) (r places.Result) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("lookup panicked", zap.String("query", query), zap.Any("panic", p))

			r = places.NotFound()
		}
	}()

	return lookuper.Lookup(ctx, query)
}

// Summarize counts found and not found results.
func Summarize[T any](results []Enriched[T]) Stats {
	s := Stats{Total: len(results)}

	for _, r := range results {
		if r.Place.Found {
			s.Found++
		} else {
			s.NotFound++
		}
	}

	return s
}

// Orchestrator carries the fan-out settings configured at startup.
type Orchestrator struct {
	lookuper Lookuper
	options  Options
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewOrchestrator creates an Orchestrator. Both logger and m may be nil.
func NewOrchestrator(lookuper Lookuper, options Options, logger *zap.Logger, m *metrics.Metrics) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{lookuper: lookuper, options: options, logger: logger, metrics: m}
}

// Lookup resolves a single query with the orchestrator's timeout.
func (o *Orchestrator) Lookup(ctx context.Context, query string) places.Result {
	if o.options.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.options.LookupTimeout)

		defer cancel()
	}

	return lookup(ctx, o.lookuper, query, o.logger)
}

// EnrichWithStats is Enrich with the orchestrator's settings, also returning
// a summary of the run. Per call options override the configured ones.
func EnrichWithStats[T any](ctx context.Context, o *Orchestrator, items []T, query func(T) string, opts ...Option) ([]Enriched[T], Stats) {
	start := time.Now()

	all := append([]Option{
		WithMaxProcs(o.options.MaxProcs),
		WithLookupTimeout(o.options.LookupTimeout),
		WithProgress(o.options.OnDone),
		WithLogger(o.logger),
	}, opts...)

	out := Enrich(ctx, o.lookuper, items, query, all...)
	stats := Summarize(out)

	o.metrics.ObserveBatch(len(items))
	o.logger.Debug("enrichment complete",
		zap.Int("total", stats.Total),
		zap.Int("found", stats.Found),
		zap.Int("not_found", stats.NotFound),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out, stats
}

// Enrich resolves every query with the orchestrator's settings.
func (o *Orchestrator) Enrich(ctx context.Context, queries []string, opts ...Option) []Enriched[string] {
	out, _ := EnrichWithStats(ctx, o, queries, func(q string) string { return q }, opts...)

	return out
}
