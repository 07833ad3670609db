// Package geolocation tracks where a buyer is. Coordinates come from a
// Locator capability: the client's own platform fix, an IP lookup, or
// nothing at all.
package geolocation

import (
	"context"
	"errors"

	"lokai/models"
)

var (
	ErrUnsupported      = errors.New("geolocation not supported")
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
)

// Locator acquires one position fix.
type Locator interface {
	Supported() bool
	Locate(ctx context.Context) (models.GeoPoint, error)
}

// Unsupported is the null Locator for environments without geolocation.
type Unsupported struct{}

func (Unsupported) Supported() bool { return false }

func (Unsupported) Locate(context.Context) (models.GeoPoint, error) {
	return models.GeoPoint{}, ErrUnsupported
}

// Fix is a platform result reported by the client: coordinates, a refusal,
// or an error message.
type Fix struct {
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	PermissionDenied bool     `json:"permissionDenied"`
	Error            string   `json:"error"`
}

// Empty reports whether the fix carries nothing, meaning the server should
// acquire a position on its own.
func (f Fix) Empty() bool {
	return f.Latitude == nil && f.Longitude == nil && !f.PermissionDenied && f.Error == ""
}

// StaticLocator replays a client-reported Fix.
type StaticLocator struct {
	Fix Fix
}

func (StaticLocator) Supported() bool { return true }

func (s StaticLocator) Locate(ctx context.Context) (models.GeoPoint, error) {
	switch {
	case s.Fix.PermissionDenied:
		return models.GeoPoint{}, ErrPermissionDenied
	case s.Fix.Error != "":
		return models.GeoPoint{}, errors.New(s.Fix.Error)
	case s.Fix.Latitude == nil || s.Fix.Longitude == nil:
		return models.GeoPoint{}, ErrUnavailable
	}
	lat, lng := *s.Fix.Latitude, *s.Fix.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.GeoPoint{}, errors.New("coordinates out of range")
	}
	return models.GeoPoint{Latitude: lat, Longitude: lng}, nil
}
