package search

import (
	"context"
	"sort"

	"lokai/models"
	"lokai/utils"

	"go.uber.org/zap"
)

const (
	maxFeatured      = 5
	fallbackFeatured = 3
)

// Ranker is the recommendation half of the AI endpoint.
type Ranker interface {
	Recommend(ctx context.Context, lang models.LanguageCode, vendors []models.VendorSummary, location *models.GeoPoint) (*models.RecommendationResponse, error)
}

// Recommender builds the featured set: remote ranking when it is usable,
// the nearest vendors otherwise.
type Recommender struct {
	ranker Ranker
	logger *zap.Logger
}

func NewRecommender(ranker Ranker, logger *zap.Logger) *Recommender {
	return &Recommender{ranker: ranker, logger: logger.With(zap.String("component", "recommender"))}
}

// exactDistances maps each locatable vendor to its unrounded great-circle
// distance from position.
func exactDistances(vendors []models.VendorRecord, position *models.GeoPoint) map[string]float64 {
	out := make(map[string]float64, len(vendors))
	if position == nil {
		return out
	}
	for _, v := range vendors {
		lat, lng, ok := utils.ParsePoint(v.LocationCoordinates)
		if !ok {
			continue
		}
		out[v.ID] = utils.Haversine(position.Latitude, position.Longitude, lat, lng)
	}
	return out
}

func roundDistances(vendors []models.VendorRecord, exact map[string]float64) map[string]*float64 {
	out := make(map[string]*float64, len(vendors))
	for _, v := range vendors {
		out[v.ID] = nil
		if d, ok := exact[v.ID]; ok {
			r := utils.RoundKm(d)
			out[v.ID] = &r
		}
	}
	return out
}

// Distances computes the great-circle distance from position to each
// vendor, rounded to 0.1 km. Vendors without parsable coordinates, or any
// vendor when position is nil, map to nil.
func Distances(vendors []models.VendorRecord, position *models.GeoPoint) map[string]*float64 {
	return roundDistances(vendors, exactDistances(vendors, position))
}

// byDistance orders vendors nearest first by unrounded distance; unknown
// distances go last and ties keep catalog order.
func byDistance(vendors []models.VendorRecord, exact map[string]float64) []models.VendorRecord {
	ordered := append([]models.VendorRecord(nil), vendors...)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, iok := exact[ordered[i].ID]
		dj, jok := exact[ordered[j].ID]
		switch {
		case !iok:
			return false
		case !jok:
			return true
		default:
			return di < dj
		}
	})
	return ordered
}

// Recommend returns nil for an empty catalog. It has no side effects
// besides the remote call, so identical inputs give identical fallbacks.
func (r *Recommender) Recommend(ctx context.Context, vendors []models.VendorRecord, position *models.GeoPoint, lang models.LanguageCode) *models.RecommendationSet {
	if len(vendors) == 0 {
		return nil
	}

	exact := exactDistances(vendors, position)
	distances := roundDistances(vendors, exact)
	ordered := byDistance(vendors, exact)

	summaries := make([]models.VendorSummary, len(ordered))
	for i, v := range ordered {
		summaries[i] = models.VendorSummary{
			ID:       v.ID,
			Name:     v.BusinessName,
			Category: v.ServiceType,
			Address:  v.BusinessAddress,
			Cost:     v.ServiceCost,
			Distance: distances[v.ID],
		}
	}

	resp, err := r.ranker.Recommend(ctx, lang, summaries, position)
	if err != nil {
		r.logger.Warn("remote ranking failed, using nearest vendors", zap.Error(err))
		return r.fallback(ordered, distances, lang)
	}

	known := make(map[string]bool, len(vendors))
	for _, v := range vendors {
		known[v.ID] = true
	}

	featured := []string{}
	seen := make(map[string]bool)
	for _, id := range resp.Recommendations.Featured {
		if known[id] && !seen[id] && len(featured) < maxFeatured {
			seen[id] = true
			featured = append(featured, id)
		}
	}
	if len(featured) == 0 {
		r.logger.Warn("remote ranking returned no known vendor, using nearest vendors")
		return r.fallback(ordered, distances, lang)
	}

	categories := map[string][]string{}
	for category, ids := range resp.Recommendations.Categories {
		var kept []string
		for _, id := range ids {
			if known[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) > 0 {
			categories[category] = kept
		}
	}

	return &models.RecommendationSet{
		Featured:   featured,
		Categories: categories,
		Insights:   resp.Recommendations.Insights,
		NearbyTip:  resp.Recommendations.NearbyTip,
		Distances:  distances,
	}
}

func (r *Recommender) fallback(ordered []models.VendorRecord, distances map[string]*float64, lang models.LanguageCode) *models.RecommendationSet {
	utils.Fallbacks.WithLabelValues("recommend").Inc()
	n := fallbackFeatured
	if len(ordered) < n {
		n = len(ordered)
	}
	featured := make([]string, n)
	for i := 0; i < n; i++ {
		featured[i] = ordered[i].ID
	}
	return &models.RecommendationSet{
		Featured:   featured,
		Categories: map[string][]string{},
		Insights:   Message(lang, MsgFallbackInsight),
		NearbyTip:  Message(lang, MsgFallbackNearbyTip),
		Distances:  distances,
		Fallback:   true,
	}
}
