// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const maxH3Resolution = 15

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}

	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini.model must not be empty")
	}

	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini.timeout must be > 0 (got %s)", c.Gemini.Timeout)
	}

	if c.Maps.Timeout <= 0 {
		return fmt.Errorf("maps.timeout must be > 0 (got %s)", c.Maps.Timeout)
	}

	if c.Enrich.MaxProcs < 0 {
		return fmt.Errorf("enrich.max_procs must be >= 0 (got %d)", c.Enrich.MaxProcs)
	}

	if c.Enrich.LookupTimeout < 0 {
		return fmt.Errorf("enrich.lookup_timeout must be >= 0 (got %s)", c.Enrich.LookupTimeout)
	}

	if c.Enrich.H3Resolution < 0 || c.Enrich.H3Resolution > maxH3Resolution {
		return fmt.Errorf("enrich.h3_resolution must be within [0, %d] (got %d)", maxH3Resolution, c.Enrich.H3Resolution)
	}

	if strings.TrimSpace(c.Static.Dir) == "" {
		return errors.New("static.dir must not be empty")
	}

	return nil
}
