// Package assistant is the HTTP client of the search-services AI endpoint.
// Every response is validated against a JSON schema before it is decoded.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lokai/models"
	"lokai/utils"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

var (
	// ErrRemoteCall covers transport failures and non-2xx statuses.
	ErrRemoteCall = errors.New("remote AI call failed")
	// ErrResponseShape means the body did not match the expected shape.
	ErrResponseShape = errors.New("unexpected AI response shape")
)

const maxResponseBytes = 4 << 20

// Client calls the endpoint. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "assistant-client")),
	}
}

// TranslateQuery asks the endpoint for the canonical English search term.
func (c *Client) TranslateQuery(ctx context.Context, query string, lang models.LanguageCode) (*models.QueryTranslationResponse, error) {
	var out models.QueryTranslationResponse
	req := models.QueryTranslationRequest{Query: query, Language: lang}
	if err := c.post(ctx, "translate-query", req, querySchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TranslateVendors sends one batch of vendor text for translation.
func (c *Client) TranslateVendors(ctx context.Context, lang models.LanguageCode, vendors []models.VendorText) ([]models.VendorText, error) {
	var out models.VendorTranslationResponse
	req := models.VendorTranslationRequest{Action: models.ActionTranslateVendors, Language: lang, Vendors: vendors}
	if err := c.post(ctx, models.ActionTranslateVendors, req, vendorsSchema, &out); err != nil {
		return nil, err
	}
	return out.TranslatedVendors, nil
}

// Recommend asks the endpoint to rank the summarized vendors.
func (c *Client) Recommend(ctx context.Context, lang models.LanguageCode, vendors []models.VendorSummary, location *models.GeoPoint) (*models.RecommendationResponse, error) {
	var out models.RecommendationResponse
	req := models.RecommendationRequest{
		Action:       models.ActionRecommendations,
		Language:     lang,
		Vendors:      vendors,
		UserLocation: location,
	}
	if err := c.post(ctx, models.ActionRecommendations, req, recommendationsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, action string, payload any, schema *gojsonschema.Schema, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		switch {
		case errors.Is(err, ErrResponseShape):
			outcome = "bad_shape"
		case err != nil:
			outcome = "error"
		}
		utils.RemoteCalls.WithLabelValues(action, outcome).Inc()
		utils.RemoteCallDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrRemoteCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to call AI service", zap.String("action", action), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrRemoteCall, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("AI service returned non-OK status", zap.String("action", action), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrRemoteCall, resp.StatusCode)
	}

	if err := validate(schema, raw); err != nil {
		c.logger.Warn("AI service response failed validation", zap.String("action", action), zap.Error(err))
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseShape, err)
	}
	return nil
}

func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseShape, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %v", ErrResponseShape, errs)
	}
	return nil
}
