package locale

import "strings"

// Intent is the workflow a caller asks for at the how-can-I-help prompt.
type Intent string

const (
	IntentNone      Intent = ""
	IntentClaim     Intent = "claim"
	IntentPolicyPDF Intent = "policy_pdf"
)

var claimKeywords = map[Language][]string{
	English: {"claim", "intimate a claim", "file a claim", "register a claim", "report an accident", "accident registered", "accident registration"},
	Hindi:   {"दावा", "दावा शुरू करना", "क्लेम", "दावा नोंदवणे", "एक्सीडेंट की रिपोर्ट करनी है", "एक्सीडेंट रिपोर्ट", "दुर्घटना की रिपोर्ट", "दुर्घटना दर्ज", "एक्सीडेंट दर्ज"},
	Marathi: {"दावा", "दावा सुरू करा", "क्लेम", "दाव्याची नोंदवही", "दावा नोंदवणे", "अपघाताची नोंद", "अपघात रिपोर्ट", "अपघाताची माहिती", "हक्क सांगणे"},
	Gujarati: {"દાવો", "દાવો શરૂ કરો", "ક્લેમ", "દાવો નોંધવો", "અપઘાત નોંધવો", "અપઘાત રિપોર્ટ", "અપઘાતની જાણ"},
}

var policyKeywords = map[Language][]string{
	English:  {"policy pdf", "policy document", "download policy", "get policy pdf"},
	Hindi:    {"पॉलिसी पीडीएफ", "पॉलिसी दस्तावेज़", "पॉलिसी डाउनलोड"},
	Marathi:  {"पॉलिसी पीडीएफ", "पीडीएफ", "पॉलिसी", "डाऊनलोड", "पॉलिसी दस्तऐवज", "माझ्या पॉलिसीची पीडीएफ", "माझी पॉलिसी पीडीएफ", "माझ्या पॉलिसीचा दस्तऐवज"},
	Gujarati: {"પોલિસી પીડીએફ", "પોલિસી દસ્તાવેજ", "પોલિસી ડાઉનલોડ"},
}

// DetectIntent matches claim keywords before policy keywords. English
// keywords are accepted in every language since callers often code-switch.
func DetectIntent(input string, lang Language) Intent {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return IntentNone
	}
	if containsAny(text, claimKeywords[lang]) || containsAny(text, claimKeywords[English]) {
		return IntentClaim
	}
	if containsAny(text, policyKeywords[lang]) || containsAny(text, policyKeywords[English]) {
		return IntentPolicyPDF
	}
	return IntentNone
}

var yesPrefixes = []string{"y", "हां", "हाँ", "होय", "haa", "હા"}

// IsAffirmative reports whether the reply starts with a yes word in any language.
func IsAffirmative(input string) bool {
	text := strings.ToLower(strings.TrimSpace(input))
	for _, p := range yesPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

var dontKnowPhrases = map[string]struct{}{}

func init() {
	for _, p := range []string{
		"i don't know", "i dont know", "dont know", "don't know", "not sure", "no idea",
		"मुझे नहीं पता", "मुझे नही पता", "कोई जानकारी नहीं", "कोई मालूम नहीं", "मालूम नहीं",
		"मला माहीत नाही", "माहीत नाही", "मला माहिती नाही", "माहिती नाही", "मला खबर नाही",
		"खबर नाही", "काही माहीत नाही", "काही खबर नाही", "काही माहिती नाही",
		"मने खबर नथी", "મને ખબર નથી", "ખબર નથી",
	} {
		dontKnowPhrases[p] = struct{}{}
	}
}

// IsDontKnow reports whether the whole utterance is an "I don't know" phrase.
func IsDontKnow(input string) bool {
	text := strings.Join(strings.Fields(strings.ToLower(input)), " ")
	_, ok := dontKnowPhrases[text]
	return ok
}

// Meridiem keywords per language. ASCII entries are matched on word
// boundaries, the rest as substrings.
type Meridiem struct {
	AM []string
	PM []string
}

var meridiemKeywords = map[Language]Meridiem{
	English: {
		AM: []string{"am", "a.m", "morning"},
		PM: []string{"pm", "p.m", "afternoon", "evening", "night"},
	},
	Hindi: {
		AM: []string{"am", "सुबह", "प्रभात"},
		PM: []string{"pm", "दोपहर", "शाम", "रात"},
	},
	Marathi: {
		AM: []string{"am", "सकाळ", "सकाळी"},
		PM: []string{"pm", "दुपारी", "सायंकाळी", "सायांकाळी", "संध्याकाळ", "संध्याकाळी", "रात्री"},
	},
	Gujarati: {
		AM: []string{"am", "સવાર", "સવારે", "સવારમાં"},
		PM: []string{"pm", "બપોર", "બપોરે", "સાંજ", "સાંજે", "રાત", "રાત્રે"},
	},
}

// MeridiemKeywords returns the AM/PM word lists for lang.
func MeridiemKeywords(lang Language) Meridiem {
	if m, ok := meridiemKeywords[lang]; ok {
		return m
	}
	return meridiemKeywords[English]
}
