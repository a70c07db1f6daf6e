package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"voicebot/internal/locale"
)

// Meridiem is the half of the day an hour belongs to.
type Meridiem string

const (
	Undetermined Meridiem = ""
	AM           Meridiem = "AM"
	PM           Meridiem = "PM"
)

var bareHour = regexp.MustCompile(`^\d{1,2}$`)

var (
	wordPatternsMu sync.Mutex
	wordPatterns   = map[string]*regexp.Regexp{}
)

// InferMeridiem classifies an utterance as AM or PM from time-of-day words
// in lang or English. Without such a word a bare hour of 12 to 23 is PM and
// 0 is AM; 1 to 11 alone is ambiguous and stays Undetermined.
func InferMeridiem(input string, lang locale.Language) Meridiem {
	text := strings.ToLower(strings.TrimSpace(ASCIIDigits(input)))
	if text == "" {
		return Undetermined
	}

	for _, kw := range []locale.Meridiem{locale.MeridiemKeywords(lang), locale.MeridiemKeywords(locale.English)} {
		if matchesAny(text, kw.AM) {
			return AM
		}
		if matchesAny(text, kw.PM) {
			return PM
		}
	}

	if !bareHour.MatchString(text) {
		return Undetermined
	}
	hour, _ := strconv.Atoi(text)
	switch {
	case hour == 0:
		return AM
	case hour >= 12 && hour <= 23:
		return PM
	default:
		return Undetermined
	}
}

func matchesAny(text string, words []string) bool {
	for _, w := range words {
		if isASCII(w) {
			if wordPattern(w).MatchString(text) {
				return true
			}
			continue
		}
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// wordPattern matches w on word boundaries so "am" does not fire inside "name".
func wordPattern(w string) *regexp.Regexp {
	wordPatternsMu.Lock()
	defer wordPatternsMu.Unlock()
	if re, ok := wordPatterns[w]; ok {
		return re
	}
	re := regexp.MustCompile(`(^|[^a-z])` + regexp.QuoteMeta(w) + `($|[^a-z])`)
	wordPatterns[w] = re
	return re
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
