// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package places resolves free-text queries into a place: name, address,
// coordinates and provider id.
package places

import (
	"context"
	"time"

	"github.com/jcodagnone/crisis/metrics"
	"github.com/jcodagnone/crisis/spatial"
	"github.com/jcodagnone/crisis/utils/textutils"
	"go.uber.org/zap"
)

// Provider response statuses.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

const unknownAddress = "Unknown"

// Result is the outcome of one lookup. Either all place fields are set and
// Found is true, or it equals NotFound().
type Result struct {
	Found       bool           `json:"found"`
	Name        string         `json:"name,omitempty"`
	Address     string         `json:"address"`
	Coordinates *spatial.Point `json:"coordinates"`
	PlaceID     string         `json:"place_id,omitempty"`
}

// NotFound returns the result used for every lookup that produced no place.
func NotFound() Result {
	return Result{Found: false, Address: unknownAddress, Coordinates: nil}
}

// Candidate is one place returned by a provider.
type Candidate struct {
	Name     string
	Address  string
	PlaceID  string
	Location spatial.Point
}

// Response is a provider text search response.
type Response struct {
	Status     string
	Candidates []Candidate
}

// Provider runs a text search against a places backend.
type Provider interface {
	TextSearch(ctx context.Context, query string) (Response, error)
}

// Client turns provider responses and failures into Results.
type Client struct {
	provider Provider
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewClient creates a Client. Both logger and m may be nil.
func NewClient(provider Provider, logger *zap.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{provider: provider, logger: logger, metrics: m}
}

// Lookup resolves query to the provider's top candidate. It never fails:
// empty queries, empty responses and provider errors all yield NotFound().
func (c *Client) Lookup(ctx context.Context, query string) Result {
	start := time.Now()

	query = textutils.NormalizeQuery(query)
	if query == "" {
		c.logger.Debug("place not found", zap.String("reason", "empty_query"))
		c.metrics.ObserveLookup(metrics.OutcomeNotFound, "empty_query", time.Since(start))

		return NotFound()
	}

	resp, err := c.provider.TextSearch(ctx, query)
	if err != nil {
		lookupErr := Classify(err)
		c.logger.Warn("lookup failed",
			zap.String("query", query),
			zap.Stringer("class", lookupErr.Type),
			zap.Error(err),
		)
		c.metrics.ObserveLookup(metrics.OutcomeFailed, lookupErr.Type.String(), time.Since(start))

		return NotFound()
	}

	if resp.Status != StatusOK || len(resp.Candidates) == 0 {
		c.logger.Debug("place not found",
			zap.String("query", query),
			zap.String("status", resp.Status),
		)
		c.metrics.ObserveLookup(metrics.OutcomeNotFound, statusReason(resp.Status), time.Since(start))

		return NotFound()
	}

	top := resp.Candidates[0]

	loc := top.Location
	if !loc.Valid() {
		c.logger.Warn("lookup failed",
			zap.String("query", query),
			zap.String("class", "invalid_coordinates"),
			zap.Stringer("location", loc),
		)
		c.metrics.ObserveLookup(metrics.OutcomeFailed, "invalid_coordinates", time.Since(start))

		return NotFound()
	}

	c.logger.Debug("place found",
		zap.String("query", query),
		zap.String("place_id", top.PlaceID),
	)
	c.metrics.ObserveLookup(metrics.OutcomeFound, "", time.Since(start))

	return Result{
		Found:       true,
		Name:        top.Name,
		Address:     top.Address,
		Coordinates: &loc,
		PlaceID:     top.PlaceID,
	}
}

func statusReason(status string) string {
	switch status {
	case "":
		return "no_status"
	case StatusOK:
		return "no_candidates"
	default:
		return status
	}
}
