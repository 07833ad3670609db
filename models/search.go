package models

// SearchQuery is one search intent, created per submission and superseded by
// the next one.
type SearchQuery struct {
	Raw           string       `json:"raw"`
	Language      LanguageCode `json:"language"`
	Normalized    string       `json:"normalized"`
	WasTranslated bool         `json:"wasTranslated"`
}

// IsEmpty reports whether there is nothing to search for.
func (q SearchQuery) IsEmpty() bool {
	return q.Normalized == ""
}
