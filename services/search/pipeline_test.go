package search

import (
	"context"
	"testing"

	"lokai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalize_EmptyInputSkipsRemote(t *testing.T) {
	fa := &fakeAssistant{}
	n := NewNormalizer(fa, zap.NewNop())

	for _, raw := range []string{"", "   ", "\t\n"} {
		q := n.Normalize(context.Background(), raw, models.LangHindi)
		assert.True(t, q.IsEmpty())
		assert.False(t, q.WasTranslated)
	}
	assert.Zero(t, fa.queryCount())
}

func TestNormalize_OfflineKeepsRaw(t *testing.T) {
	n := NewNormalizer(&fakeAssistant{}, zap.NewNop())
	q := n.Normalize(context.Background(), "plumber", models.LangEnglish)
	assert.Equal(t, "plumber", q.Normalized)
	assert.False(t, q.WasTranslated)
}

func TestNormalize_UsesTrimmedTranslation(t *testing.T) {
	fa := &fakeAssistant{translateQuery: func(_ context.Context, q string) (*models.QueryTranslationResponse, error) {
		return &models.QueryTranslationResponse{TranslatedQuery: "  kirana shop \n", OriginalQuery: q}, nil
	}}
	q := NewNormalizer(fa, zap.NewNop()).Normalize(context.Background(), "नजदीकी किराना दुकान", models.LangHindi)
	assert.Equal(t, "kirana shop", q.Normalized)
	assert.True(t, q.WasTranslated)
	assert.Equal(t, "नजदीकी किराना दुकान", q.Raw)
}

func TestNormalize_EmptyTranslationKeepsRaw(t *testing.T) {
	fa := &fakeAssistant{translateQuery: func(context.Context, string) (*models.QueryTranslationResponse, error) {
		return &models.QueryTranslationResponse{TranslatedQuery: "  "}, nil
	}}
	q := NewNormalizer(fa, zap.NewNop()).Normalize(context.Background(), "ಡಾಕ್ಟರ್", models.LangKannada)
	assert.Equal(t, "ಡಾಕ್ಟರ್", q.Normalized)
	assert.False(t, q.WasTranslated)
}

func TestLocalize_EnglishIsIdentity(t *testing.T) {
	fa := &fakeAssistant{}
	l := NewLocalizer(fa, zap.NewNop())
	in := tenVendors()

	out := l.Localize(context.Background(), in, models.LangEnglish)
	assert.Equal(t, in, out)
	assert.Zero(t, fa.vendorCallCount())
}

func TestLocalize_FailureReturnsInputUnchanged(t *testing.T) {
	l := NewLocalizer(&fakeAssistant{}, zap.NewNop())
	in := tenVendors()
	out := l.Localize(context.Background(), in, models.LangTamil)
	assert.Equal(t, in, out)

	out[0].BusinessName = "mutated"
	assert.Equal(t, "Vendor 0", in[0].BusinessName, "result is a copy")
}

func TestLocalize_MergesByID(t *testing.T) {
	fa := &fakeAssistant{translateVendors: func(_ models.LanguageCode, batch []models.VendorText) ([]models.VendorText, error) {
		return []models.VendorText{
			{ID: "b", BusinessName: "चाय पॉइंट", ServiceType: "", BusinessAddress: "इंदिरानगर"},
			{ID: "unknown", BusinessName: "x"},
		}, nil
	}}
	in := []models.VendorRecord{
		vendor("a", "Sharma Plumbing", "Plumber", "MG Road", ""),
		vendor("b", "Chai Point", "Food", "Indiranagar", ""),
	}
	out := NewLocalizer(fa, zap.NewNop()).Localize(context.Background(), in, models.LangHindi)

	require.Len(t, out, 2)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, "चाय पॉइंट", out[1].BusinessName)
	assert.Equal(t, "Food", out[1].ServiceType)
	assert.Equal(t, "इंदिरानगर", out[1].BusinessAddress)
}

func TestFilter_PlumberOffline(t *testing.T) {
	catalog := []models.VendorRecord{
		vendor("a", "Sharma Services", "PLUMBER", "MG Road", ""),
		vendor("b", "Chai Point", "Food", "Indiranagar", ""),
		vendor("c", "Ravi Plumbers", "Repairs", "Koramangala", ""),
		vendor("d", "Tutor Hub", "Tutor", "Plumber Street", ""),
	}
	fa := &fakeAssistant{}
	q := NewNormalizer(fa, zap.NewNop()).Normalize(context.Background(), "plumber", models.LangEnglish)
	require.Equal(t, "plumber", q.Normalized)

	assert.Equal(t, []string{"a", "c", "d"}, ids(Filter(catalog, catalog, q.Normalized)))
}

func TestFilter_MatchesOriginalFields(t *testing.T) {
	original := []models.VendorRecord{vendor("a", "Sharma Plumbing", "Plumber", "MG Road", "")}
	localized := []models.VendorRecord{vendor("a", "शर्मा प्लंबिंग", "प्लंबर", "एमजी रोड", "")}

	assert.Equal(t, []string{"a"}, ids(Filter(localized, original, "plumber")))
	assert.Equal(t, "शर्मा प्लंबिंग", Filter(localized, original, "plumber")[0].BusinessName)
	assert.Len(t, Filter(localized, original, ""), 1)
	assert.Empty(t, Filter(localized, original, "doctor"))
}
