package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lokai/models"
	"lokai/services/search"
	"lokai/services/speech"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errOffline = errors.New("connection refused")

// offlineAssistant fails every remote call, so the pipeline falls back.
type offlineAssistant struct{}

func (offlineAssistant) TranslateQuery(context.Context, string, models.LanguageCode) (*models.QueryTranslationResponse, error) {
	return nil, errOffline
}

func (offlineAssistant) TranslateVendors(context.Context, models.LanguageCode, []models.VendorText) ([]models.VendorText, error) {
	return nil, errOffline
}

func (offlineAssistant) Recommend(context.Context, models.LanguageCode, []models.VendorSummary, *models.GeoPoint) (*models.RecommendationResponse, error) {
	return nil, errOffline
}

type staticCatalog struct {
	vendors []models.VendorRecord
	err     error
}

func (c staticCatalog) FetchApproved(context.Context) ([]models.VendorRecord, error) {
	return models.CloneVendors(c.vendors), c.err
}

func cost(v float64) *float64 { return &v }

func sampleVendors() []models.VendorRecord {
	return []models.VendorRecord{
		{ID: "a", BusinessName: "Sharma Plumbing", ServiceType: "Plumber", BusinessAddress: "MG Road",
			Status: models.VendorApproved, LocationCoordinates: "(12.9806,77.5946)", ServiceCost: cost(400), BusinessPhotos: []string{}},
		{ID: "b", BusinessName: "Raju Tea Stall", ServiceType: "Chai Shop", BusinessAddress: "Jayanagar",
			Status: models.VendorApproved, ServiceCost: cost(30), BusinessPhotos: []string{}},
	}
}

// finalRecognizer answers every recognition with one final transcript.
type finalRecognizer struct{ transcript string }

func (r finalRecognizer) Supported() bool { return true }

func (r finalRecognizer) Recognize(context.Context, models.LanguageCode, io.Reader) (speech.ResultStream, error) {
	return &onceStream{res: speech.Result{Transcript: r.transcript, Final: true}}, nil
}

type onceStream struct {
	res  speech.Result
	done bool
}

func (s *onceStream) Recv() (speech.Result, error) {
	if s.done {
		return speech.Result{}, io.EOF
	}
	s.done = true
	return s.res, nil
}

func newRegistry(cat search.Catalog, rec speech.Recognizer) *search.Registry {
	logger := zap.NewNop()
	fa := offlineAssistant{}
	return search.NewRegistry(search.Dependencies{
		Catalog:     cat,
		Normalizer:  search.NewNormalizer(fa, logger),
		Localizer:   search.NewLocalizer(fa, logger),
		Recommender: search.NewRecommender(fa, logger),
		Recognizer:  rec,
		Logger:      logger,
	}, time.Minute)
}

func newSearchRouter(h *SearchHandler) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/search/sessions")
	api.POST("", h.CreateSessionHandler)
	api.GET("/:id", h.GetSessionHandler)
	api.DELETE("/:id", h.DeleteSessionHandler)
	api.POST("/:id/query", h.SubmitQueryHandler)
	api.POST("/:id/voice", h.VoiceQueryHandler)
	api.POST("/:id/voice/stop", h.StopVoiceHandler)
	api.PUT("/:id/language", h.SetLanguageHandler)
	api.POST("/:id/location", h.ReportLocationHandler)
	api.POST("/:id/refresh", h.RefreshSessionHandler)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) search.Snapshot {
	t.Helper()
	var snap search.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap), w.Body.String())
	return snap
}

// wavFile builds a 16 kHz mono LINEAR16 WAV around samples.
func wavFile(samples []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint32(32000))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)
	return buf.Bytes()
}
