// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ErrNoMapsKey is returned when no places key is configured and none could be
// retrieved through Application Default Credentials.
var ErrNoMapsKey = errors.New("no maps api key available")

// ResolveMapsKey returns the configured places API key, falling back to the
// API Keys service when MAPS_API_KEY is unset.
func ResolveMapsKey(ctx context.Context, cfg MapsConfig, logger *zap.Logger) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}

	logger.Info("MAPS_API_KEY is not set, attempting to retrieve it via ADC",
		zap.String("display_name", cfg.KeyDisplayName))

	key, err := apiKeyFromADC(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoMapsKey, err)
	}

	logger.Info("retrieved maps api key via ADC")

	return key, nil
}

func apiKeyFromADC(ctx context.Context, cfg MapsConfig) (string, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return "", fmt.Errorf("finding default credentials: %w", err)
		}

		projectID = creds.ProjectID
	}

	if projectID == "" {
		return "", errors.New("no project id in credentials, set GOOGLE_CLOUD_PROJECT")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != cfg.KeyDisplayName {
			continue
		}

		// ListKeys redacts the secret, GetKeyString returns it.
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q found but its key string is empty", cfg.KeyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", cfg.KeyDisplayName, projectID)
}
