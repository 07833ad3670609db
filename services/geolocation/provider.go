package geolocation

import (
	"context"
	"errors"
	"sync"

	"lokai/models"
)

// Provider owns one session's position. At most one acquisition runs at a
// time: RequestLocation while acquiring returns the current state without
// starting another. Retries are always caller initiated.
type Provider struct {
	locator Locator

	mu       sync.Mutex
	position models.GeoPosition
	// acquired flips once, on the first successful fix.
	acquired bool
}

func NewProvider(locator Locator) *Provider {
	if locator == nil {
		locator = Unsupported{}
	}
	return &Provider{
		locator:  locator,
		position: models.GeoPosition{State: models.GeoIdle},
	}
}

// Supported reports whether the bound locator can ever produce a fix.
func (p *Provider) Supported() bool {
	return p.locator.Supported()
}

// RequestLocation acquires a position through the bound locator. The
// returned flag is true when this call produced the first fix of the
// session.
func (p *Provider) RequestLocation(ctx context.Context) (models.GeoPosition, bool) {
	return p.acquire(ctx, p.locator)
}

// Report applies a platform result pushed by the client.
func (p *Provider) Report(ctx context.Context, fix Fix) (models.GeoPosition, bool) {
	return p.acquire(ctx, StaticLocator{Fix: fix})
}

func (p *Provider) acquire(ctx context.Context, locator Locator) (models.GeoPosition, bool) {
	p.mu.Lock()
	if p.position.State == models.GeoAcquiring {
		pos := p.position
		p.mu.Unlock()
		return pos, false
	}
	p.position.State = models.GeoAcquiring
	p.position.Error = ""
	p.mu.Unlock()

	point, err := locator.Locate(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	first := false
	switch {
	case err == nil:
		lat, lng := point.Latitude, point.Longitude
		p.position = models.GeoPosition{Latitude: &lat, Longitude: &lng, State: models.GeoAcquired}
		first = !p.acquired
		p.acquired = true
	case errors.Is(err, ErrPermissionDenied):
		p.position.State = models.GeoDenied
		p.position.Error = ""
	default:
		p.position.State = models.GeoFailed
		p.position.Error = err.Error()
	}
	return p.position, first
}

// State returns the current position.
func (p *Provider) State() models.GeoPosition {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}
