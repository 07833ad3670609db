package models

// LanguageCode is one of the five supported BCP-47 tags.
type LanguageCode string

const (
	LangEnglish LanguageCode = "en-US"
	LangHindi   LanguageCode = "hi-IN"
	LangKannada LanguageCode = "kn-IN"
	LangTelugu  LanguageCode = "te-IN"
	LangTamil   LanguageCode = "ta-IN"

	DefaultLanguage = LangEnglish
)

// SupportedLanguages lists the closed set of tags in display order.
var SupportedLanguages = []LanguageCode{LangEnglish, LangHindi, LangKannada, LangTelugu, LangTamil}

var languageNames = map[LanguageCode]string{
	LangEnglish: "English",
	LangHindi:   "Hindi",
	LangKannada: "Kannada",
	LangTelugu:  "Telugu",
	LangTamil:   "Tamil",
}

// ParseLanguage validates a tag. An empty tag yields the default language.
func ParseLanguage(tag string) (LanguageCode, bool) {
	if tag == "" {
		return DefaultLanguage, true
	}
	l := LanguageCode(tag)
	if _, ok := languageNames[l]; !ok {
		return "", false
	}
	return l, true
}

// Name returns the English name of the language, used in LLM prompts.
// Unknown tags read as English.
func (l LanguageCode) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return languageNames[LangEnglish]
}

func (l LanguageCode) IsDefault() bool {
	return l == DefaultLanguage
}
