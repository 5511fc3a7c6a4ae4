// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jcodagnone/crisis/config"
	"github.com/jcodagnone/crisis/enrich"
	"github.com/jcodagnone/crisis/gateway"
	"github.com/jcodagnone/crisis/generation"
	"github.com/jcodagnone/crisis/metrics"
	"github.com/jcodagnone/crisis/places"
	"github.com/jcodagnone/crisis/utils/httputils"
)

func httpClient(timeout time.Duration) *http.Client {
	var trace io.Writer
	if cfg.Server.TraceHTTP {
		trace = os.Stderr
	}

	headers := map[string]string{"User-Agent": "crisis/" + Version}

	return httputils.NewClient(timeout, headers, trace, cfg.Server.TraceHTTPBody)
}

func newOrchestrator(ctx context.Context, m *metrics.Metrics) (*enrich.Orchestrator, error) {
	key, err := config.ResolveMapsKey(ctx, cfg.Maps, logger)
	if err != nil {
		return nil, err
	}

	provider, err := places.NewGoogleProvider(key,
		places.WithHTTPClient(httpClient(cfg.Maps.Timeout)),
		places.WithLanguage(cfg.Maps.Language),
	)
	if err != nil {
		return nil, err
	}

	lookups := places.NewClient(provider, logger.Named("places"), m)

	return enrich.NewOrchestrator(lookups, enrich.Options{
		MaxProcs:      cfg.Enrich.MaxProcs,
		LookupTimeout: cfg.Enrich.LookupTimeout,
	}, logger.Named("enrich"), m), nil
}

func newGenerator(ctx context.Context, m *metrics.Metrics) (*generation.Client, error) {
	backend, err := generation.NewGeminiBackend(ctx, generation.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		HTTPClient: httpClient(cfg.Gemini.Timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini backend: %w", err)
	}

	return generation.NewClient(backend, cfg.Gemini.Timeout, logger.Named("generation"), m), nil
}

func newServer(ctx context.Context) (*gateway.Server, error) {
	m := metrics.New()

	generator, err := newGenerator(ctx, m)
	if err != nil {
		return nil, err
	}

	orchestrator, err := newOrchestrator(ctx, m)
	if err != nil {
		return nil, err
	}

	return gateway.NewServer(cfg, generator, orchestrator, m, logger.Named("gateway")), nil
}
