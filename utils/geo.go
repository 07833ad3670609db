package utils

import (
	"math"
	"regexp"
	"strconv"
)

const earthRadiusKm = 6371

// pointPattern matches the stringified point type the vendor store returns,
// e.g. "(12.9716,77.5946)". Parentheses are optional.
var pointPattern = regexp.MustCompile(`^\s*\(?\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)?\s*$`)

// Haversine calculates the great-circle distance (in km) between two lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ParsePoint reads a "(lat,lng)" string. ok is false for anything that does
// not parse or lies outside valid coordinate ranges; it never panics.
func ParsePoint(s string) (lat, lng float64, ok bool) {
	m := pointPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// RoundKm rounds a distance to one decimal place.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
