package models

import "encoding/json"

// Actions understood by the search-services endpoint. The query translation
// request carries no action.
const (
	ActionTranslateQuery   = ""
	ActionTranslateVendors = "translate-vendors"
	ActionRecommendations  = "get-recommendations"
)

// AssistantEnvelope is the union of the three request shapes as received by
// the endpoint; Vendors is decoded once the action is known.
type AssistantEnvelope struct {
	Action       string          `json:"action,omitempty"`
	Query        string          `json:"query,omitempty"`
	Language     string          `json:"language"`
	Vendors      json.RawMessage `json:"vendors,omitempty"`
	UserLocation *GeoPoint       `json:"userLocation,omitempty"`
}

type QueryTranslationRequest struct {
	Query    string       `json:"query"`
	Language LanguageCode `json:"language"`
}

type QueryTranslationResponse struct {
	TranslatedQuery string `json:"translatedQuery"`
	OriginalQuery   string `json:"originalQuery"`
	Detected        bool   `json:"detected"`
}

// VendorText is the translatable slice of a vendor record.
type VendorText struct {
	ID              string `json:"id"`
	BusinessName    string `json:"business_name"`
	ServiceType     string `json:"service_type"`
	BusinessAddress string `json:"business_address"`
}

type VendorTranslationRequest struct {
	Action   string       `json:"action"`
	Language LanguageCode `json:"language"`
	Vendors  []VendorText `json:"vendors"`
}

type VendorTranslationResponse struct {
	TranslatedVendors []VendorText `json:"translatedVendors"`
}

// VendorSummary is what the ranking model sees of a vendor.
type VendorSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Address  string   `json:"address"`
	Cost     *float64 `json:"cost"`
	Distance *float64 `json:"distance"`
}

type RecommendationRequest struct {
	Action       string          `json:"action"`
	Language     LanguageCode    `json:"language"`
	Vendors      []VendorSummary `json:"vendors"`
	UserLocation *GeoPoint       `json:"userLocation"`
}

type Recommendations struct {
	Featured   []string            `json:"featured"`
	Categories map[string][]string `json:"categories"`
	Insights   string              `json:"insights"`
	NearbyTip  string              `json:"nearbyTip"`
}

type RecommendationResponse struct {
	Recommendations Recommendations     `json:"recommendations"`
	VendorDistances map[string]*float64 `json:"vendorDistances"`
}

// AssistantError is the body the endpoint returns on failure.
type AssistantError struct {
	Error           string `json:"error"`
	TranslatedQuery string `json:"translatedQuery"`
	OriginalQuery   string `json:"originalQuery"`
}
