// Package locale holds the caller-facing string tables and keyword lists for
// every supported language. Languages form a closed set; lookups never fail.
package locale

import "strings"

// Language identifies one of the supported conversation languages.
type Language string

const (
	English  Language = "english"
	Hindi    Language = "hindi"
	Marathi  Language = "marathi"
	Gujarati Language = "gujarati"
)

// Languages lists every supported language in detection order.
var Languages = []Language{Hindi, Gujarati, Marathi, English}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case English, Hindi, Marathi, Gujarati:
		return true
	}
	return false
}

// ParseLanguage maps a stored tag back to a Language.
func ParseLanguage(tag string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(tag)))
	if !l.Valid() {
		return English, false
	}
	return l, true
}

var languageKeywords = map[Language][]string{
	Hindi:    {"hindi", "हिंदी", "हिन्दी"},
	Gujarati: {"gujarati", "ગુજરાતી"},
	Marathi:  {"marathi", "मराठी"},
	English:  {"english", "अंग्रेजी", "इंग्रजी", "અંગ્રેજી"},
}

// DetectLanguage finds the first language whose keyword occurs in input.
func DetectLanguage(input string) (Language, bool) {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return English, false
	}
	for _, lang := range Languages {
		if containsAny(text, languageKeywords[lang]) {
			return lang, true
		}
	}
	return English, false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
