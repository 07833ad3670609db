package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"lokai/models"
	"lokai/utils"

	"go.uber.org/zap"
)

const maxFeatured = 5

var ErrMalformedCompletion = errors.New("model returned malformed JSON")

var fencePattern = regexp.MustCompile("```json\\n?|\\n?```")

// SearchAssistant answers the three request shapes of the search-services
// endpoint.
type SearchAssistant interface {
	TranslateQuery(ctx context.Context, query string, lang models.LanguageCode) (*models.QueryTranslationResponse, error)
	TranslateVendors(ctx context.Context, lang models.LanguageCode, vendors []map[string]json.RawMessage) ([]map[string]json.RawMessage, error)
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResponse, error)
}

type DefaultSearchAssistant struct {
	llm    LLM
	store  *TranslationStore
	logger *zap.Logger
}

func NewDefaultSearchAssistant(llm LLM, store *TranslationStore, logger *zap.Logger) *DefaultSearchAssistant {
	return &DefaultSearchAssistant{
		llm:    llm,
		store:  store,
		logger: logger.With(zap.String("component", "search-assistant")),
	}
}

func cleanCompletion(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// TranslateQuery returns the canonical English search term for query. The
// model's answer replaces the query only when it is non-empty.
func (s *DefaultSearchAssistant) TranslateQuery(ctx context.Context, query string, lang models.LanguageCode) (*models.QueryTranslationResponse, error) {
	if strings.TrimSpace(query) == "" {
		return &models.QueryTranslationResponse{TranslatedQuery: "", OriginalQuery: query}, nil
	}

	if cached, ok, err := s.store.GetQuery(ctx, lang, query); err != nil {
		s.logger.Warn("translation cache read failed", zap.Error(err))
	} else if ok {
		utils.LLMRequests.WithLabelValues("translate-query", "cache").Inc()
		return &models.QueryTranslationResponse{TranslatedQuery: cached, OriginalQuery: query, Detected: cached != query}, nil
	}

	s.logger.Info("Received search query", zap.String("query", query), zap.String("language", string(lang)))
	out, err := s.llm.GenerateContent(ctx, GenerateRequest{
		System:      queryTranslationPrompt,
		Prompt:      query,
		Temperature: 0.3,
		MaxTokens:   50,
	})
	if err != nil {
		return nil, err
	}
	utils.LLMRequests.WithLabelValues("translate-query", "llm").Inc()

	translated := strings.Trim(strings.TrimSpace(out), "\"'`")
	if translated == "" {
		translated = query
	}
	if err := s.store.SetQuery(ctx, lang, query, translated); err != nil {
		s.logger.Warn("translation cache write failed", zap.Error(err))
	}

	s.logger.Debug("Translated query", zap.String("translated", translated))
	return &models.QueryTranslationResponse{
		TranslatedQuery: translated,
		OriginalQuery:   query,
		Detected:        translated != query,
	}, nil
}

func rawString(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func setString(m map[string]json.RawMessage, key, value string) {
	b, _ := json.Marshal(value)
	m[key] = b
}

// TranslateVendors translates the display fields of vendors into lang and
// merges them back by id. Fields not involved in translation pass through
// untouched. English is returned as is.
func (s *DefaultSearchAssistant) TranslateVendors(ctx context.Context, lang models.LanguageCode, vendors []map[string]json.RawMessage) ([]map[string]json.RawMessage, error) {
	if lang == models.LangEnglish || len(vendors) == 0 {
		utils.LLMRequests.WithLabelValues(models.ActionTranslateVendors, "identity").Inc()
		return vendors, nil
	}

	translated := make(map[string]models.VendorText, len(vendors))
	var misses []models.VendorText
	for _, v := range vendors {
		text := models.VendorText{
			ID:              rawString(v, "id"),
			BusinessName:    rawString(v, "business_name"),
			ServiceType:     rawString(v, "service_type"),
			BusinessAddress: rawString(v, "business_address"),
		}
		if text.ID == "" {
			continue
		}
		hit, ok, err := s.store.GetVendor(ctx, lang, text)
		if err != nil {
			s.logger.Warn("translation cache read failed", zap.Error(err))
		}
		if ok {
			translated[text.ID] = hit
			continue
		}
		misses = append(misses, text)
	}

	if len(misses) == 0 {
		utils.LLMRequests.WithLabelValues(models.ActionTranslateVendors, "cache").Inc()
	} else {
		s.logger.Info("Translating vendors", zap.String("language", lang.Name()), zap.Int("vendors", len(misses)))
		fresh, err := s.translateBatch(ctx, lang, misses)
		switch {
		case errors.Is(err, ErrMalformedCompletion):
			s.logger.Warn("Failed to parse translation response", zap.Error(err))
		case err != nil:
			return nil, err
		}
		bySource := make(map[string]models.VendorText, len(misses))
		for _, m := range misses {
			bySource[m.ID] = m
		}
		for _, t := range fresh {
			source, ok := bySource[t.ID]
			if !ok {
				continue
			}
			translated[t.ID] = t
			if err := s.store.SetVendor(ctx, lang, source, t); err != nil {
				s.logger.Warn("translation cache write failed", zap.Error(err))
			}
		}
	}

	out := make([]map[string]json.RawMessage, len(vendors))
	for i, v := range vendors {
		merged := make(map[string]json.RawMessage, len(v))
		for k, raw := range v {
			merged[k] = raw
		}
		if t, ok := translated[rawString(v, "id")]; ok {
			if t.BusinessName != "" {
				setString(merged, "business_name", t.BusinessName)
			}
			if t.ServiceType != "" {
				setString(merged, "service_type", t.ServiceType)
			}
			if t.BusinessAddress != "" {
				setString(merged, "business_address", t.BusinessAddress)
			}
		}
		out[i] = merged
	}
	return out, nil
}

func (s *DefaultSearchAssistant) translateBatch(ctx context.Context, lang models.LanguageCode, batch []models.VendorText) ([]models.VendorText, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}
	out, err := s.llm.GenerateContent(ctx, GenerateRequest{
		System:      fmt.Sprintf(vendorTranslationPrompt, lang.Name()),
		Prompt:      string(payload),
		Temperature: 0.3,
		MaxTokens:   2000,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	utils.LLMRequests.WithLabelValues(models.ActionTranslateVendors, "llm").Inc()

	var result []models.VendorText
	if err := json.Unmarshal([]byte(cleanCompletion(out)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	return result, nil
}

// Recommend ranks the summarized vendors. Distances are computed by the
// caller and echoed back as vendorDistances.
func (s *DefaultSearchAssistant) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResponse, error) {
	resp := &models.RecommendationResponse{
		Recommendations: models.Recommendations{Featured: []string{}, Categories: map[string][]string{}},
		VendorDistances: make(map[string]*float64, len(req.Vendors)),
	}
	known := make(map[string]bool, len(req.Vendors))
	for _, v := range req.Vendors {
		known[v.ID] = true
		resp.VendorDistances[v.ID] = v.Distance
	}
	if len(req.Vendors) == 0 {
		return resp, nil
	}

	payload, err := json.Marshal(struct {
		UserLocation *models.GeoPoint       `json:"userLocation"`
		Vendors      []models.VendorSummary `json:"vendors"`
	}{req.UserLocation, req.Vendors})
	if err != nil {
		return nil, err
	}

	out, err := s.llm.GenerateContent(ctx, GenerateRequest{
		System:      fmt.Sprintf(recommendationPrompt, req.Language.Name()),
		Prompt:      string(payload),
		Temperature: 0.4,
		MaxTokens:   1000,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	utils.LLMRequests.WithLabelValues(models.ActionRecommendations, "llm").Inc()

	var recs models.Recommendations
	if err := json.Unmarshal([]byte(cleanCompletion(out)), &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}

	seen := make(map[string]bool)
	for _, id := range recs.Featured {
		if known[id] && !seen[id] && len(resp.Recommendations.Featured) < maxFeatured {
			seen[id] = true
			resp.Recommendations.Featured = append(resp.Recommendations.Featured, id)
		}
	}
	for category, ids := range recs.Categories {
		var kept []string
		for _, id := range ids {
			if known[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) > 0 {
			resp.Recommendations.Categories[category] = kept
		}
	}
	resp.Recommendations.Insights = strings.TrimSpace(recs.Insights)
	resp.Recommendations.NearbyTip = strings.TrimSpace(recs.NearbyTip)
	return resp, nil
}
