package search

import (
	"strings"

	"lokai/models"
)

// Filter keeps the localized vendors whose name, category or address
// contains query, case-insensitively. The original record's fields are
// matched too, since normalized queries are English while localized text
// may not be. An empty query keeps everything.
func Filter(localized, original []models.VendorRecord, query string) []models.VendorRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return models.CloneVendors(localized)
	}

	originals := make(map[string]models.VendorRecord, len(original))
	for _, v := range original {
		originals[v.ID] = v
	}

	out := []models.VendorRecord{}
	for _, v := range localized {
		if matches(v, needle) {
			out = append(out, v.Clone())
			continue
		}
		if o, ok := originals[v.ID]; ok && matches(o, needle) {
			out = append(out, v.Clone())
		}
	}
	return out
}

func matches(v models.VendorRecord, needle string) bool {
	return strings.Contains(strings.ToLower(v.BusinessName), needle) ||
		strings.Contains(strings.ToLower(v.ServiceType), needle) ||
		strings.Contains(strings.ToLower(v.BusinessAddress), needle)
}
