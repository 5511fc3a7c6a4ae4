// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	shenzhen := &Point{Lat: 22.5431, Lng: 114.0579}
	hsinchu := &Point{Lat: 24.8138, Lng: 120.9675}

	d := shenzhen.HaversineDistance(hsinchu)
	assert.InDelta(t, 740_000, d, 20_000)
	assert.InDelta(t, 0, shenzhen.HaversineDistance(shenzhen), 1e-6)
}

func TestPointValid(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{}, true},
		{"north pole", Point{Lat: 90, Lng: 0}, true},
		{"latitude too high", Point{Lat: 90.1, Lng: 0}, false},
		{"longitude too low", Point{Lat: 0, Lng: -180.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Valid())
		})
	}
}

func TestPointCell(t *testing.T) {
	p := Point{Lat: 37.3861, Lng: -122.0839}

	a, err := p.Cell(5)
	require.NoError(t, err)

	b, err := p.Cell(5)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestConcentrate(t *testing.T) {
	taipei := &Point{Lat: 25.0330, Lng: 121.5654}
	taipeiNear := &Point{Lat: 25.0331, Lng: 121.5655}
	munich := &Point{Lat: 48.1351, Lng: 11.5820}

	c, err := Concentrate([]*Point{taipei, nil, munich, taipeiNear}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Resolution)
	assert.Equal(t, 3, c.Located)
	assert.Equal(t, 2, c.TopCellCount)
	assert.InDelta(t, 2.0/3.0, c.Share, 1e-9)
	assert.Greater(t, c.MaxDistanceKm, 9000.0)

	want, err := taipei.Cell(3)
	require.NoError(t, err)
	assert.Equal(t, want, c.TopCell)
}

func TestConcentrateNoPoints(t *testing.T) {
	c, err := Concentrate([]*Point{nil, nil}, 4)
	require.NoError(t, err)
	assert.Equal(t, Concentration{Resolution: 4}, c)
}

func TestConcentrateInvalidResolution(t *testing.T) {
	_, err := Concentrate(nil, 16)
	require.Error(t, err)

	_, err = Concentrate(nil, -1)
	require.Error(t, err)
}
