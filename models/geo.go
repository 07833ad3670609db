package models

// GeoPoint is a WGS 84 coordinate in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AcquisitionState string

const (
	GeoIdle      AcquisitionState = "idle"
	GeoAcquiring AcquisitionState = "acquiring"
	GeoAcquired  AcquisitionState = "acquired"
	GeoDenied    AcquisitionState = "denied"
	GeoFailed    AcquisitionState = "failed"
)

// GeoPosition is the ephemeral location state of one search session.
type GeoPosition struct {
	Latitude  *float64         `json:"latitude"`
	Longitude *float64         `json:"longitude"`
	State     AcquisitionState `json:"state"`
	Error     string           `json:"error,omitempty"`
}

// Loading, PermissionDenied and Point expose the position the way the
// search page consumes it.
func (p GeoPosition) Loading() bool {
	return p.State == GeoAcquiring
}

func (p GeoPosition) PermissionDenied() bool {
	return p.State == GeoDenied
}

// Point returns the coordinates when they are known.
func (p GeoPosition) Point() *GeoPoint {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &GeoPoint{Latitude: *p.Latitude, Longitude: *p.Longitude}
}
