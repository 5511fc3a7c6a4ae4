// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ErrNoAPIKey is returned when a Gemini backend is built without a key.
var ErrNoAPIKey = errors.New("generation: gemini api key is required")

// GeminiBackend generates JSON with a Gemini model.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// GeminiOptions configures NewGeminiBackend.
type GeminiOptions struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client
	// BaseURL overrides the API endpoint.
	BaseURL string
}

// NewGeminiBackend creates a backend for the Gemini API.
func NewGeminiBackend(ctx context.Context, opts GeminiOptions) (*GeminiBackend, error) {
	if opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	if opts.Model == "" {
		return nil, errors.New("generation: gemini model is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: opts.Model}, nil
}

// GenerateJSON implements Backend.
func (g *GeminiBackend) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.GenAI(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}

	text := resp.Text()
	if text == "" && len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		return "", fmt.Errorf("gemini %s: no text, finish reason %s", g.model, resp.Candidates[0].FinishReason)
	}

	return text, nil
}
