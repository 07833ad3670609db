package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"lokai/models"
	ai "lokai/services/intelligence"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler serves the search-services AI endpoint.
type AssistantHandler struct {
	Assistant ai.SearchAssistant
}

func NewAssistantHandler(assistant ai.SearchAssistant) *AssistantHandler {
	return &AssistantHandler{Assistant: assistant}
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// fail answers with the endpoint's error body. Callers degrade on it.
func (h *AssistantHandler) fail(c *gin.Context, err error) {
	getLogger(c).Error("Error in search-services", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.AssistantError{
		Error:           err.Error(),
		TranslatedQuery: "",
		OriginalQuery:   "",
	})
}

// SearchServicesHandler handles POST /functions/v1/search-services. The
// action field selects vendor translation or recommendations; anything
// else is a query translation.
func (h *AssistantHandler) SearchServicesHandler(c *gin.Context) {
	var env models.AssistantEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.fail(c, err)
		return
	}
	lang, ok := models.ParseLanguage(env.Language)
	if !ok {
		lang = models.DefaultLanguage
	}
	ctx := c.Request.Context()

	switch {
	case env.Action == models.ActionTranslateVendors && isJSONArray(env.Vendors):
		var vendors []map[string]json.RawMessage
		if err := json.Unmarshal(env.Vendors, &vendors); err != nil {
			h.fail(c, err)
			return
		}
		out, err := h.Assistant.TranslateVendors(ctx, lang, vendors)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"translatedVendors": out})

	case env.Action == models.ActionRecommendations:
		req := models.RecommendationRequest{
			Action:       env.Action,
			Language:     lang,
			Vendors:      []models.VendorSummary{},
			UserLocation: env.UserLocation,
		}
		if isJSONArray(env.Vendors) {
			if err := json.Unmarshal(env.Vendors, &req.Vendors); err != nil {
				h.fail(c, err)
				return
			}
		}
		out, err := h.Assistant.Recommend(ctx, req)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)

	default:
		out, err := h.Assistant.TranslateQuery(ctx, env.Query, lang)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
