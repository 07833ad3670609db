package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_SymmetricAndZero(t *testing.T) {
	points := [][2]float64{
		{12.9716, 77.5946},
		{13.0827, 80.2707},
		{28.6139, 77.2090},
		{-33.8688, 151.2093},
		{0, 0},
	}
	for _, a := range points {
		assert.Equal(t, 0.0, Haversine(a[0], a[1], a[0], a[1]))
		for _, b := range points {
			assert.InDelta(t, Haversine(a[0], a[1], b[0], b[1]), Haversine(b[0], b[1], a[0], a[1]), 1e-9)
		}
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Bengaluru to Chennai is roughly 290 km as the crow flies.
	d := Haversine(12.9716, 77.5946, 13.0827, 80.2707)
	assert.InDelta(t, 290, d, 5)
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
		lat  float64
		lng  float64
	}{
		{name: "point type", in: "(12.9716,77.5946)", ok: true, lat: 12.9716, lng: 77.5946},
		{name: "spaces", in: " ( 12.5 , -3.25 ) ", ok: true, lat: 12.5, lng: -3.25},
		{name: "no parentheses", in: "12,77", ok: true, lat: 12, lng: 77},
		{name: "empty", in: ""},
		{name: "address text", in: "MG Road, Bengaluru"},
		{name: "one value", in: "(12.97)"},
		{name: "latitude out of range", in: "(97.1,77.5)"},
		{name: "longitude out of range", in: "(12.1,187.5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, ok := ParsePoint(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.lat, lat)
				assert.Equal(t, tt.lng, lng)
			}
		})
	}
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 1.2, RoundKm(1.234))
	assert.Equal(t, 8.0, RoundKm(7.96))
}
