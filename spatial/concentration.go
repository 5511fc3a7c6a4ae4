// Copyright 2025 The ChapaUY Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import "fmt"

// MaxResolution is the finest H3 resolution.
const MaxResolution = 15

// Concentration summarizes how geographically clustered a set of points is.
type Concentration struct {
	Resolution    int     `json:"resolution"`
	Located       int     `json:"located"`
	TopCell       string  `json:"top_cell,omitempty"`
	TopCellCount  int     `json:"top_cell_count"`
	Share         float64 `json:"share"`
	MaxDistanceKm float64 `json:"max_distance_km"`
}

// Concentrate buckets the non-nil points into H3 cells at the given resolution
// and reports the most populated cell. Ties resolve to the lexicographically
// smallest cell so the result does not depend on input order.
func Concentrate(points []*Point, resolution int) (Concentration, error) {
	if resolution < 0 || resolution > MaxResolution {
		return Concentration{}, fmt.Errorf("spatial: resolution %d out of range [0, %d]", resolution, MaxResolution)
	}

	c := Concentration{Resolution: resolution}
	counts := make(map[string]int)
	located := make([]*Point, 0, len(points))

	for _, p := range points {
		if p == nil {
			continue
		}

		cell, err := p.Cell(resolution)
		if err != nil {
			return Concentration{}, err
		}

		counts[cell]++
		located = append(located, p)
	}

	c.Located = len(located)
	if c.Located == 0 {
		return c, nil
	}

	for cell, n := range counts {
		if n > c.TopCellCount || (n == c.TopCellCount && cell < c.TopCell) {
			c.TopCell, c.TopCellCount = cell, n
		}
	}

	c.Share = float64(c.TopCellCount) / float64(c.Located)

	for i := range located {
		for j := i + 1; j < len(located); j++ {
			if d := located[i].HaversineDistance(located[j]) / 1000; d > c.MaxDistanceKm {
				c.MaxDistanceKm = d
			}
		}
	}

	return c, nil
}
