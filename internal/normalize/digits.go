// Package normalize turns raw caller utterances into canonical field values:
// spoken or local-script numbers into ASCII digit strings, spoken email
// addresses into addresses, and time-of-day words into AM/PM.
package normalize

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"voicebot/internal/locale"
)

// Mode selects how emitted digit groups are joined.
type Mode int

const (
	// Concat joins every emitted group into one digit string.
	Concat Mode = iota
	// Grouped keeps groups apart with a single space, so "21 45" stays hour and minute.
	Grouped
)

var localDigits = strings.NewReplacer(
	"०", "0", "१", "1", "२", "2", "३", "3", "४", "4",
	"५", "5", "६", "6", "७", "7", "८", "8", "९", "9",
	"૦", "0", "૧", "1", "૨", "2", "૩", "3", "૪", "4",
	"૫", "5", "૬", "6", "૭", "7", "૮", "8", "૯", "9",
)

// ASCIIDigits rewrites Devanagari and Gujarati digit glyphs as ASCII digits.
func ASCIIDigits(s string) string {
	return localDigits.Replace(s)
}

func init() {
	for _, table := range []map[string]int{englishNumbers, hindiNumbers, marathiNumbers, gujaratiNumbers, scaleWords, multiplierWords} {
		for k, v := range table {
			if nk := norm.NFC.String(k); nk != k {
				delete(table, k)
				table[nk] = v
			}
		}
	}
}

// Digits converts an utterance into digits using the number words of lang.
// English number words are understood in every language. Unknown words are
// dropped.
func Digits(input string, lang locale.Language, mode Mode) string {
	tokens := tokenize(input)
	words := numberTable(lang)

	lookup := func(tok string) (string, bool) {
		if v, ok := words[tok]; ok {
			return strconv.Itoa(v), true
		}
		if v, ok := englishNumbers[tok]; ok {
			return strconv.Itoa(v), true
		}
		if isNumeric(tok) {
			return tok, true
		}
		return "", false
	}

	var groups []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if times, ok := multiplierWords[tok]; ok && i+1 < len(tokens) {
			if d, ok := lookup(tokens[i+1]); ok {
				groups = append(groups, strings.Repeat(d, times))
				i++
				continue
			}
		}

		if value, next, ok := compound(tokens, i, words); ok {
			groups = append(groups, strconv.Itoa(value))
			i = next - 1
			continue
		}

		if d, ok := lookup(tok); ok {
			groups = append(groups, d)
			continue
		}
		slog.Debug("normalize: dropped token", "token", tok, "language", lang)
	}

	if mode == Grouped {
		return strings.Join(groups, " ")
	}
	return strings.Join(groups, "")
}

// compound reads an Indian-system number such as "पाँच लाख सड़सठ हज़ार" starting
// at tokens[i]. It only fires when a scale word is involved.
func compound(tokens []string, i int, words map[string]int) (int, int, bool) {
	isScale := func(j int) bool {
		if j >= len(tokens) {
			return false
		}
		_, ok := scaleWords[tokens[j]]
		return ok
	}
	if !isScale(i) && !isScale(i+1) {
		return 0, i, false
	}

	total, current := 0, 0
	sawScale := false
	j := i
	for j < len(tokens) {
		tok := tokens[j]
		if scale, ok := scaleWords[tok]; ok {
			if current == 0 {
				current = 1
			}
			if scale == 100 {
				current *= scale
			} else {
				total += current * scale
				current = 0
			}
			sawScale = true
			j++
			continue
		}
		v, ok := words[tok]
		if !ok && isNumeric(tok) && len(tok) <= 2 {
			v, _ = strconv.Atoi(tok)
			ok = true
		}
		if !ok {
			break
		}
		if isScale(j + 1) {
			current += v
			j++
			continue
		}
		if sawScale && isScale(j-1) {
			current += v
			j++
		}
		break
	}
	if !sawScale {
		return 0, i, false
	}
	return total + current, j, true
}

// tokenize splits on anything that is not a letter, combining mark or digit,
// so "123-456" and "21:45" both yield two groups.
func tokenize(input string) []string {
	text := norm.NFC.String(strings.ToLower(ASCIIDigits(input)))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r))
	})
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DigitsOnly strips everything that is not an ASCII digit.
func DigitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
