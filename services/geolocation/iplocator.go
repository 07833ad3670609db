package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"lokai/models"

	"go.uber.org/zap"
)

// ipGeo is the subset of the ipapi.co response we read.
type ipGeo struct {
	City      string   `json:"city"`
	Country   string   `json:"country_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// IPLookup resolves client IPs to coordinates through an ipapi.co style
// service and caches successful lookups by IP.
type IPLookup struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]models.GeoPoint
}

func NewIPLookup(baseURL string, logger *zap.Logger) *IPLookup {
	return &IPLookup{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger.With(zap.String("component", "ip-geolocation")),
		cache:   make(map[string]models.GeoPoint),
	}
}

// ForIP binds the lookup to one client address.
func (l *IPLookup) ForIP(ip string) Locator {
	if l == nil || l.baseURL == "" {
		return Unsupported{}
	}
	return &ipLocator{lookup: l, ip: ip}
}

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return true
	}
	return parsedIP.IsLoopback() || parsedIP.IsPrivate() || parsedIP.IsUnspecified() || parsedIP.IsLinkLocalUnicast()
}

func (l *IPLookup) locate(ctx context.Context, ip string) (models.GeoPoint, error) {
	l.mu.RLock()
	if p, ok := l.cache[ip]; ok {
		l.mu.RUnlock()
		return p, nil
	}
	l.mu.RUnlock()

	if isPrivateIP(ip) {
		l.logger.Debug("client IP is private; no position", zap.String("ip", ip))
		return models.GeoPoint{}, fmt.Errorf("%w: private address", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", l.baseURL, ip), nil)
	if err != nil {
		return models.GeoPoint{}, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		return models.GeoPoint{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Warn("geolocation lookup returned non-OK status", zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return models.GeoPoint{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var geo ipGeo
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return models.GeoPoint{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if geo.Error || geo.Latitude == nil || geo.Longitude == nil {
		return models.GeoPoint{}, fmt.Errorf("%w: %s", ErrUnavailable, geo.Reason)
	}

	p := models.GeoPoint{Latitude: *geo.Latitude, Longitude: *geo.Longitude}
	l.mu.Lock()
	l.cache[ip] = p
	l.mu.Unlock()

	l.logger.Debug("geolocation resolved", zap.String("ip", ip), zap.String("city", geo.City), zap.String("country", geo.Country))
	return p, nil
}

type ipLocator struct {
	lookup *IPLookup
	ip     string
}

func (i *ipLocator) Supported() bool { return true }

func (i *ipLocator) Locate(ctx context.Context) (models.GeoPoint, error) {
	return i.lookup.locate(ctx, i.ip)
}
