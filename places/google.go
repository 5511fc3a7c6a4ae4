// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jcodagnone/crisis/spatial"
	"googlemaps.github.io/maps"
)

// ErrNoAPIKey is returned when a Google provider is built without a key.
var ErrNoAPIKey = errors.New("places: api key is required")

// GoogleProvider searches places with the Google Places Text Search API.
type GoogleProvider struct {
	client   *maps.Client
	language string
}

// GoogleOption configures a GoogleProvider.
type GoogleOption func(*googleOptions)

type googleOptions struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

// WithHTTPClient sets the HTTP client used for provider calls.
func WithHTTPClient(c *http.Client) GoogleOption {
	return func(o *googleOptions) { o.httpClient = c }
}

// WithBaseURL points the provider at another endpoint.
func WithBaseURL(u string) GoogleOption {
	return func(o *googleOptions) { o.baseURL = u }
}

// WithLanguage sets the language results are returned in.
func WithLanguage(lang string) GoogleOption {
	return func(o *googleOptions) { o.language = lang }
}

// NewGoogleProvider creates a provider authenticated with apiKey.
func NewGoogleProvider(apiKey string, opts ...GoogleOption) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	var o googleOptions
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(o.httpClient))
	}

	if o.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(o.baseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}

	return &GoogleProvider{client: client, language: o.language}, nil
}

// TextSearch implements Provider. The maps client folds ZERO_RESULTS into a
// successful empty response and reports every other non-OK status as an error.
func (g *GoogleProvider) TextSearch(ctx context.Context, query string) (Response, error) {
	resp, err := g.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    query,
		Language: g.language,
	})
	if err != nil {
		return Response{}, fmt.Errorf("text search: %w", err)
	}

	if len(resp.Results) == 0 {
		return Response{Status: StatusZeroResults}, nil
	}

	out := Response{Status: StatusOK, Candidates: make([]Candidate, 0, len(resp.Results))}
	for _, r := range resp.Results {
		out.Candidates = append(out.Candidates, Candidate{
			Name:    r.Name,
			Address: r.FormattedAddress,
			PlaceID: r.PlaceID,
			Location: spatial.Point{
				Lat: r.Geometry.Location.Lat,
				Lng: r.Geometry.Location.Lng,
			},
		})
	}

	return out, nil
}
