// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jcodagnone/crisis/metrics"
	"github.com/jcodagnone/crisis/places"
	"github.com/jcodagnone/crisis/spatial"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type node struct {
	Company string
	City    string
}

func (n node) query() string {
	return strings.TrimSpace(n.Company + " " + n.City)
}

func foundAt(name string, lat, lng float64) places.Result {
	return places.Result{
		Found:       true,
		Name:        name,
		Address:     name + " address",
		Coordinates: &spatial.Point{Lat: lat, Lng: lng},
		PlaceID:     "id-" + name,
	}
}

// echo finds every non empty query, naming the place after it.
var echo = LookupFunc(func(_ context.Context, q string) places.Result {
	if q == "" {
		return places.NotFound()
	}

	return foundAt(q, 1, 2)
})

func TestEnrichPreservesOrder(t *testing.T) {
	const n = 50

	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	// Later items finish first.
	lookuper := LookupFunc(func(_ context.Context, q string) places.Result {
		var i int
		_, _ = fmt.Sscanf(q, "item-%d", &i)
		time.Sleep(time.Duration(n-i)*time.Millisecond + time.Duration(rand.IntN(3))*time.Millisecond)

		return foundAt(q, float64(i), 0)
	})

	got := Enrich(context.Background(), lookuper, items, func(i int) string { return fmt.Sprintf("item-%d", i) })

	require.Len(t, got, n)

	for i, e := range got {
		assert.Equal(t, i, e.Entity)
		assert.Equal(t, fmt.Sprintf("item-%d", i), e.Place.Name)
	}
}

func TestEnrichEmpty(t *testing.T) {
	calls := 0
	lookuper := LookupFunc(func(context.Context, string) places.Result {
		calls++

		return places.NotFound()
	})

	got := Enrich(context.Background(), lookuper, nil, node.query)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Enrich(context.Background(), lookuper, []node{}, node.query)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, calls)
}

func TestEnrichMixedResults(t *testing.T) {
	items := []node{{Company: "Acme Corp", City: "Shenzhen"}, {}}

	got := Enrich(context.Background(), echo, items, node.query)

	require.Len(t, got, 2)
	assert.True(t, got[0].Place.Found)
	assert.Equal(t, "Acme Corp Shenzhen", got[0].Place.Name)
	assert.NotNil(t, got[0].Place.Coordinates)
	assert.Equal(t, items[0], got[0].Entity)

	assert.Equal(t, places.NotFound(), got[1].Place)
	assert.Nil(t, got[1].Place.Coordinates)
	assert.Equal(t, "Unknown", got[1].Place.Address)
}

func TestEnrichFaultIsolation(t *testing.T) {
	items := []string{"ok-1", "broken", "ok-2"}
	lookuper := LookupFunc(func(_ context.Context, q string) places.Result {
		if q == "broken" {
			// What places.Client returns when the transport fails.
			return places.NotFound()
		}

		return foundAt(q, 3, 4)
	})

	got := Enrich(context.Background(), lookuper, items, func(s string) string { return s })

	require.Len(t, got, 3)
	assert.True(t, got[0].Place.Found)
	assert.False(t, got[1].Place.Found)
	assert.True(t, got[2].Place.Found)
	assert.Equal(t, Stats{Total: 3, Found: 2, NotFound: 1}, Summarize(got))
}

func TestEnrichRecoversPanickingLookup(t *testing.T) {
	items := []string{"ok-1", "panics", "ok-2"}
	lookuper := LookupFunc(func(_ context.Context, q string) places.Result {
		if q == "panics" {
			panic("nil map write")
		}

		return foundAt(q, 3, 4)
	})

	tests := []struct {
		name string
		opts []Option
	}{
		{"no timeout", nil},
		{"with timeout", []Option{WithLookupTimeout(time.Second)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithLogger(zaptest.NewLogger(t))}, tt.opts...)

			var got []Enriched[string]
			require.NotPanics(t, func() {
				got = Enrich(context.Background(), lookuper, items, func(s string) string { return s }, opts...)
			})

			require.Len(t, got, 3)
			assert.True(t, got[0].Place.Found)
			assert.Equal(t, places.NotFound(), got[1].Place)
			assert.Equal(t, "panics", got[1].Entity)
			assert.True(t, got[2].Place.Found)
		})
	}
}

func TestOrchestratorLookupRecoversPanic(t *testing.T) {
	o := NewOrchestrator(LookupFunc(func(context.Context, string) places.Result {
		panic("boom")
	}), Options{}, zaptest.NewLogger(t), nil)

	assert.Equal(t, places.NotFound(), o.Lookup(context.Background(), "Acme"))
}

func TestEnrichLookupTimeout(t *testing.T) {
	items := []node{
		{Company: "TSMC", City: "Hsinchu"},
		{Company: "Slow One", City: "Nowhere"},
		{Company: "Foxconn", City: "Zhengzhou"},
		{Company: "Slow Two", City: "Nowhere"},
		{Company: "ASML", City: "Veldhoven"},
	}

	lookuper := LookupFunc(func(ctx context.Context, q string) places.Result {
		if strings.HasPrefix(q, "Slow") {
			// Ignores cancellation, like a provider stuck on the wire.
			time.Sleep(2 * time.Second)

			return foundAt(q, 0, 0)
		}

		return foundAt(q, 5, 6)
	})

	start := time.Now()
	got := Enrich(context.Background(), lookuper, items, node.query, WithLookupTimeout(50*time.Millisecond))

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, got, 5)

	located := 0

	for i, e := range got {
		assert.Equal(t, items[i], e.Entity)

		if e.Place.Found {
			located++

			assert.NotNil(t, e.Place.Coordinates)
		} else {
			assert.Equal(t, places.NotFound(), e.Place)
		}
	}

	assert.Equal(t, 3, located)
	assert.False(t, got[1].Place.Found)
	assert.False(t, got[3].Place.Found)
}

func TestEnrichMaxProcs(t *testing.T) {
	var inFlight, peak atomic.Int32

	lookuper := LookupFunc(func(_ context.Context, q string) places.Result {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}

		time.Sleep(5 * time.Millisecond)

		return foundAt(q, 0, 0)
	})

	items := make([]string, 20)
	for i := range items {
		items[i] = fmt.Sprint(i)
	}

	got := Enrich(context.Background(), lookuper, items, func(s string) string { return s }, WithMaxProcs(3))

	require.Len(t, got, 20)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestEnrichProgress(t *testing.T) {
	var mu sync.Mutex

	done := 0
	progress := WithProgress(func() {
		mu.Lock()
		defer mu.Unlock()

		done++
	})

	Enrich(context.Background(), echo, []string{"a", "b", "c"}, func(s string) string { return s }, progress)
	assert.Equal(t, 3, done)
}

func TestOrchestrator(t *testing.T) {
	m := metrics.New()
	o := NewOrchestrator(echo, Options{MaxProcs: 2}, zaptest.NewLogger(t), m)

	got, stats := EnrichWithStats(context.Background(), o, []node{{Company: "Acme"}, {}}, node.query)

	require.Len(t, got, 2)
	assert.Equal(t, Stats{Total: 2, Found: 1, NotFound: 1}, stats)
	assert.Equal(t, 1, testutil.CollectAndCount(m.EnrichBatchSize))

	queries := o.Enrich(context.Background(), []string{"x", ""})
	assert.Equal(t, "x", queries[0].Entity)
	assert.True(t, queries[0].Place.Found)
	assert.False(t, queries[1].Place.Found)

	assert.True(t, o.Lookup(context.Background(), "y").Found)
}
