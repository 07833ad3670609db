package search

import (
	"context"

	"lokai/models"
	"lokai/utils"

	"go.uber.org/zap"
)

// VendorTranslator is the vendor translation half of the AI endpoint.
type VendorTranslator interface {
	TranslateVendors(ctx context.Context, lang models.LanguageCode, vendors []models.VendorText) ([]models.VendorText, error)
}

// Localizer translates vendor display fields. Ids, prices, photos and
// coordinates are never touched.
type Localizer struct {
	translator VendorTranslator
	logger     *zap.Logger
}

func NewLocalizer(translator VendorTranslator, logger *zap.Logger) *Localizer {
	return &Localizer{translator: translator, logger: logger.With(zap.String("component", "localizer"))}
}

// Localize returns a translated copy of vendors. English, an empty list or
// any remote failure yields an unchanged copy.
func (l *Localizer) Localize(ctx context.Context, vendors []models.VendorRecord, lang models.LanguageCode) []models.VendorRecord {
	out := models.CloneVendors(vendors)
	if lang.IsDefault() || len(vendors) == 0 {
		return out
	}

	batch := make([]models.VendorText, len(vendors))
	for i, v := range vendors {
		batch[i] = models.VendorText{
			ID:              v.ID,
			BusinessName:    v.BusinessName,
			ServiceType:     v.ServiceType,
			BusinessAddress: v.BusinessAddress,
		}
	}

	translated, err := l.translator.TranslateVendors(ctx, lang, batch)
	if err != nil {
		l.logger.Warn("vendor localization failed, showing originals", zap.String("language", string(lang)), zap.Error(err))
		utils.Fallbacks.WithLabelValues("localize").Inc()
		return out
	}

	byID := make(map[string]models.VendorText, len(translated))
	for _, t := range translated {
		byID[t.ID] = t
	}
	for i := range out {
		t, ok := byID[out[i].ID]
		if !ok {
			continue
		}
		if t.BusinessName != "" {
			out[i].BusinessName = t.BusinessName
		}
		if t.ServiceType != "" {
			out[i].ServiceType = t.ServiceType
		}
		if t.BusinessAddress != "" {
			out[i].BusinessAddress = t.BusinessAddress
		}
	}
	return out
}
