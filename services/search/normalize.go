package search

import (
	"context"
	"strings"

	"lokai/models"
	"lokai/utils"

	"go.uber.org/zap"
)

// QueryTranslator is the query translation half of the AI endpoint.
type QueryTranslator interface {
	TranslateQuery(ctx context.Context, query string, lang models.LanguageCode) (*models.QueryTranslationResponse, error)
}

// Normalizer reduces a free-form phrase to a canonical English search term.
type Normalizer struct {
	translator QueryTranslator
	logger     *zap.Logger
}

func NewNormalizer(translator QueryTranslator, logger *zap.Logger) *Normalizer {
	return &Normalizer{translator: translator, logger: logger.With(zap.String("component", "normalizer"))}
}

// Normalize never fails: when the remote call fails or returns nothing
// usable, the raw input is searched as typed.
func (n *Normalizer) Normalize(ctx context.Context, raw string, lang models.LanguageCode) models.SearchQuery {
	q := models.SearchQuery{Raw: raw, Language: lang}
	if strings.TrimSpace(raw) == "" {
		return q
	}

	resp, err := n.translator.TranslateQuery(ctx, raw, lang)
	if err != nil {
		n.logger.Warn("query normalization failed, searching raw input", zap.Error(err))
		utils.Fallbacks.WithLabelValues("normalize").Inc()
		q.Normalized = raw
		return q
	}

	translated := strings.TrimSpace(resp.TranslatedQuery)
	if translated == "" {
		utils.Fallbacks.WithLabelValues("normalize").Inc()
		q.Normalized = raw
		return q
	}
	q.Normalized = translated
	q.WasTranslated = translated != strings.TrimSpace(raw)
	return q
}
