package models

// RecommendationSet is derived from the catalog, the user position and the
// target language. It is never stored and is replaced wholesale.
type RecommendationSet struct {
	Featured   []string            `json:"featured"`
	Categories map[string][]string `json:"categories"`
	Insights   string              `json:"insights"`
	NearbyTip  string              `json:"nearbyTip"`
	// Distances maps vendor id to km; nil means position unknown.
	Distances map[string]*float64 `json:"vendorDistances"`
	Fallback  bool                `json:"fallback"`
}
