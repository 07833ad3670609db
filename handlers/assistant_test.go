package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"lokai/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) TranslateQuery(ctx context.Context, query string, lang models.LanguageCode) (*models.QueryTranslationResponse, error) {
	args := m.Called(ctx, query, lang)
	resp, _ := args.Get(0).(*models.QueryTranslationResponse)
	return resp, args.Error(1)
}

func (m *MockAssistant) TranslateVendors(ctx context.Context, lang models.LanguageCode, vendors []map[string]json.RawMessage) ([]map[string]json.RawMessage, error) {
	args := m.Called(ctx, lang, vendors)
	out, _ := args.Get(0).([]map[string]json.RawMessage)
	return out, args.Error(1)
}

func (m *MockAssistant) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.RecommendationResponse)
	return resp, args.Error(1)
}

func newAssistantRouter(m *MockAssistant) *gin.Engine {
	r := gin.New()
	r.POST("/functions/v1/search-services", NewAssistantHandler(m).SearchServicesHandler)
	return r
}

const endpoint = "/functions/v1/search-services"

func TestSearchServices_TranslateQuery(t *testing.T) {
	m := new(MockAssistant)
	m.On("TranslateQuery", mock.Anything, "ಪ್ಲಂಬರ್", models.LangKannada).
		Return(&models.QueryTranslationResponse{TranslatedQuery: "plumber", OriginalQuery: "ಪ್ಲಂಬರ್", Detected: true}, nil)

	w := doJSON(t, newAssistantRouter(m), http.MethodPost, endpoint, gin.H{"query": "ಪ್ಲಂಬರ್", "language": "kn-IN"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"translatedQuery":"plumber","originalQuery":"ಪ್ಲಂಬರ್","detected":true}`, w.Body.String())
	m.AssertExpectations(t)
}

func TestSearchServices_TranslateVendors(t *testing.T) {
	m := new(MockAssistant)
	translated := []map[string]json.RawMessage{{"id": json.RawMessage(`"v1"`), "business_name": json.RawMessage(`"शर्मा"`)}}
	m.On("TranslateVendors", mock.Anything, models.LangHindi, mock.MatchedBy(func(v []map[string]json.RawMessage) bool {
		return len(v) == 1 && string(v[0]["id"]) == `"v1"`
	})).Return(translated, nil)

	w := doJSON(t, newAssistantRouter(m), http.MethodPost, endpoint, gin.H{
		"action":   models.ActionTranslateVendors,
		"language": "hi-IN",
		"vendors":  []gin.H{{"id": "v1", "business_name": "Sharma"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"translatedVendors":[{"id":"v1","business_name":"शर्मा"}]}`, w.Body.String())
	m.AssertExpectations(t)
}

func TestSearchServices_VendorsNotAnArrayFallsThroughToQuery(t *testing.T) {
	m := new(MockAssistant)
	m.On("TranslateQuery", mock.Anything, "", models.LangEnglish).
		Return(&models.QueryTranslationResponse{}, nil)

	w := doJSON(t, newAssistantRouter(m), http.MethodPost, endpoint, gin.H{
		"action":  models.ActionTranslateVendors,
		"vendors": gin.H{"id": "v1"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	m.AssertNotCalled(t, "TranslateVendors", mock.Anything, mock.Anything, mock.Anything)
	m.AssertExpectations(t)
}

func TestSearchServices_Recommendations(t *testing.T) {
	m := new(MockAssistant)
	km := 1.2
	m.On("Recommend", mock.Anything, mock.MatchedBy(func(req models.RecommendationRequest) bool {
		return req.Language == models.LangTamil && len(req.Vendors) == 1 && req.UserLocation != nil
	})).Return(&models.RecommendationResponse{
		Recommendations: models.Recommendations{Featured: []string{"v1"}, Categories: map[string][]string{}},
		VendorDistances: map[string]*float64{"v1": &km},
	}, nil)

	w := doJSON(t, newAssistantRouter(m), http.MethodPost, endpoint, gin.H{
		"action":       models.ActionRecommendations,
		"language":     "ta-IN",
		"vendors":      []gin.H{{"id": "v1", "name": "Sharma", "category": "Plumber", "cost": 400, "distance": 1.2}},
		"userLocation": gin.H{"latitude": 12.97, "longitude": 77.59},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"v1"}, resp.Recommendations.Featured)
	require.NotNil(t, resp.VendorDistances["v1"])
	assert.Equal(t, 1.2, *resp.VendorDistances["v1"])
	m.AssertExpectations(t)
}

func TestSearchServices_Failure(t *testing.T) {
	m := new(MockAssistant)
	m.On("TranslateQuery", mock.Anything, "plumber", models.LangEnglish).
		Return(nil, errors.New("gemini generate error: quota exceeded"))

	w := doJSON(t, newAssistantRouter(m), http.MethodPost, endpoint, gin.H{"query": "plumber", "language": "en-US"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body models.AssistantError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "quota exceeded")
	assert.Empty(t, body.TranslatedQuery)
	assert.Empty(t, body.OriginalQuery)
}

func TestSearchServices_BadBody(t *testing.T) {
	r := newAssistantRouter(new(MockAssistant))
	w := doJSON(t, r, http.MethodPost, endpoint, "not an object")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
