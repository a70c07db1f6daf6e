package normalize

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// spoken forms of the symbols and provider names that appear in addresses.
var emailPhrases = map[string][]string{
	"@":       {"at the rate of", "at the rate", "at d rate", "attherate", "at", "एट द रेट", "एटदरेट", "एट", "रेट", "पर", "वर", "એટ ધ રેટ", "એટ"},
	".":       {"dot", "डॉट", "दॉट", "डोट", "ડોટ", "।"},
	"_":       {"underscore", "under score", "अंडरस्कोर", "અન્ડરસ્કોર"},
	"-":       {"dash", "hyphen", "हायफन", "डैश", "હાયફન"},
	"com":     {"कॉम", "काम", "કોમ", "comma"},
	"gmail":   {"जीमेल", "जी मेल", "જીમેલ", "g mail"},
	"yahoo":   {"याहू", "યાહૂ", "yahoomail"},
	"rediff":  {"रेडिफ", "रेडिफमेल"},
	"hotmail": {"हॉटमेल", "હોટમેલ"},
	"outlook": {"आउटलुक", "આઉટલુક"},
	"co.in":   {"co in", "co dot in", "सीओ डॉट इन"},
}

type phrase struct {
	words       []string
	replacement string
}

// emailRules is ordered longest first so "at the rate" wins over "at".
var emailRules []phrase

func init() {
	for replacement, spoken := range emailPhrases {
		for _, s := range spoken {
			words := strings.Fields(norm.NFKD.String(strings.ToLower(s)))
			emailRules = append(emailRules, phrase{words: words, replacement: replacement})
		}
	}
	sort.SliceStable(emailRules, func(i, j int) bool {
		if len(emailRules[i].words) != len(emailRules[j].words) {
			return len(emailRules[i].words) > len(emailRules[j].words)
		}
		return strings.Join(emailRules[i].words, " ") < strings.Join(emailRules[j].words, " ")
	})
}

var (
	repeatedAt  = regexp.MustCompile(`@+`)
	repeatedDot = regexp.MustCompile(`\.+`)
	emailStrip  = regexp.MustCompile(`[^A-Za-z0-9@._-]`)
	emailShape  = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
)

// Email rebuilds a spoken address such as "vinay dot rathod at gmail dot com".
// Local-script words are romanized; the result is not guaranteed to be valid.
func Email(input string) string {
	text := norm.NFKD.String(strings.ToLower(strings.TrimSpace(input)))
	tokens := strings.Fields(text)

	var out []string
	for i := 0; i < len(tokens); {
		if r, n := matchPhrase(tokens[i:]); n > 0 {
			out = append(out, r)
			i += n
			continue
		}
		out = append(out, tokens[i])
		i++
	}

	joined := norm.NFC.String(strings.Join(out, ""))
	joined = Romanize(ASCIIDigits(joined))
	joined = repeatedAt.ReplaceAllString(joined, "@")
	joined = repeatedDot.ReplaceAllString(joined, ".")
	joined = emailStrip.ReplaceAllString(joined, "")
	return strings.Trim(joined, "@.")
}

func matchPhrase(tokens []string) (string, int) {
	for _, rule := range emailRules {
		if len(rule.words) > len(tokens) {
			continue
		}
		ok := true
		for k, w := range rule.words {
			if tokens[k] != w {
				ok = false
				break
			}
		}
		if ok {
			return rule.replacement, len(rule.words)
		}
	}
	return "", 0
}

// ValidEmail reports whether s has the local@domain.tld shape with a single "@".
func ValidEmail(s string) bool {
	return strings.Count(s, "@") == 1 && emailShape.MatchString(s)
}
