package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lokai/models"
)

var errOffline = errors.New("dial tcp: connection refused")

// fakeAssistant stands in for the AI endpoint client.
type fakeAssistant struct {
	mu           sync.Mutex
	queries      []string
	vendorCalls  [][]models.VendorText
	recCalls     int
	inflight     int
	maxInflight  int
	queryStarted chan string

	translateQuery   func(ctx context.Context, query string) (*models.QueryTranslationResponse, error)
	translateVendors func(lang models.LanguageCode, batch []models.VendorText) ([]models.VendorText, error)
	recommend        func(vendors []models.VendorSummary) (*models.RecommendationResponse, error)
}

func (f *fakeAssistant) TranslateQuery(ctx context.Context, query string, lang models.LanguageCode) (*models.QueryTranslationResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	started := f.queryStarted
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if started != nil {
		started <- query
	}
	if f.translateQuery == nil {
		return nil, errOffline
	}
	return f.translateQuery(ctx, query)
}

func (f *fakeAssistant) TranslateVendors(ctx context.Context, lang models.LanguageCode, vendors []models.VendorText) ([]models.VendorText, error) {
	f.mu.Lock()
	f.vendorCalls = append(f.vendorCalls, vendors)
	f.mu.Unlock()
	if f.translateVendors == nil {
		return nil, errOffline
	}
	return f.translateVendors(lang, vendors)
}

func (f *fakeAssistant) Recommend(ctx context.Context, lang models.LanguageCode, vendors []models.VendorSummary, location *models.GeoPoint) (*models.RecommendationResponse, error) {
	f.mu.Lock()
	f.recCalls++
	f.mu.Unlock()
	if f.recommend == nil {
		return nil, errOffline
	}
	return f.recommend(vendors)
}

func (f *fakeAssistant) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeAssistant) recCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recCalls
}

func (f *fakeAssistant) peakInflight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInflight
}

func (f *fakeAssistant) vendorCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.vendorCalls)
}

type fakeCatalog struct {
	mu      sync.Mutex
	vendors []models.VendorRecord
	err     error
	calls   int
}

func (c *fakeCatalog) FetchApproved(ctx context.Context) ([]models.VendorRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return models.CloneVendors(c.vendors), c.err
}

func cost(v float64) *float64 { return &v }

func vendor(id, name, category, address, coords string) models.VendorRecord {
	return models.VendorRecord{
		ID:                  id,
		BusinessName:        name,
		ServiceType:         category,
		BusinessAddress:     address,
		Status:              models.VendorApproved,
		LocationCoordinates: coords,
		ServiceCost:         cost(100),
		BusinessPhotos:      []string{},
	}
}

// tenVendors returns ten approved vendors around central Bengaluru.
func tenVendors() []models.VendorRecord {
	out := make([]models.VendorRecord, 10)
	for i := range out {
		out[i] = vendor(
			fmt.Sprintf("v%d", i),
			fmt.Sprintf("Vendor %d", i),
			"Plumber",
			"MG Road",
			fmt.Sprintf("(12.97%d,77.59)", i),
		)
		out[i].ServiceCost = cost(float64(100 + i))
	}
	return out
}

func ids(vendors []models.VendorRecord) []string {
	out := make([]string, len(vendors))
	for i, v := range vendors {
		out[i] = v.ID
	}
	return out
}

// bengaluru is the buyer position used across tests.
var bengaluru = &models.GeoPoint{Latitude: 12.9716, Longitude: 77.5946}
