package normalize

import "strings"

// Gujarati sits exactly 0x180 code points above Devanagari, letter for letter.
const gujaratiOffset = 0x0A80 - 0x0900

const (
	nukta      = 0x093C
	virama     = 0x094D
	anusvara   = 0x0902
	candrabind = 0x0901
	visarga    = 0x0903
)

var consonants = map[rune]string{
	'क': "k", 'ख': "kh", 'ग': "g", 'घ': "gh", 'ङ': "n",
	'च': "ch", 'छ': "chh", 'ज': "j", 'झ': "jh", 'ञ': "n",
	'ट': "t", 'ठ': "th", 'ड': "d", 'ढ': "dh", 'ण': "n",
	'त': "t", 'थ': "th", 'द': "d", 'ध': "dh", 'न': "n",
	'प': "p", 'फ': "ph", 'ब': "b", 'भ': "bh", 'म': "m",
	'य': "y", 'र': "r", 'ल': "l", 'ळ': "l", 'व': "v",
	'श': "sh", 'ष': "sh", 'स': "s", 'ह': "h",
}

var nuktaConsonants = map[rune]string{
	'क': "q", 'ख': "kh", 'ग': "g", 'ज': "z", 'ड': "r", 'ढ': "rh", 'फ': "f",
}

var vowelSigns = map[rune]string{
	'ा': "a", 'ि': "i", 'ी': "i", 'ु': "u", 'ू': "u", 'ृ': "ri",
	'े': "e", 'ै': "ai", 'ो': "o", 'ौ': "au", 'ॉ': "o", 'ॅ': "e",
}

var vowels = map[rune]string{
	'अ': "a", 'आ': "a", 'इ': "i", 'ई': "i", 'उ': "u", 'ऊ': "u",
	'ऋ': "ri", 'ए': "e", 'ऐ': "ai", 'ओ': "o", 'औ': "au", 'ऑ': "o", 'ऍ': "e",
}

// Romanize spells Devanagari and Gujarati letters in plain Latin. The
// inherent vowel is dropped at the end of a word, so "अमित" becomes "amit".
// Everything outside those two scripts is copied through.
func Romanize(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))
	pending := false

	flush := func() {
		if pending {
			sb.WriteByte('a')
			pending = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := foldGujarati(runes[i])

		if c, ok := consonants[r]; ok {
			flush()
			if i+1 < len(runes) && foldGujarati(runes[i+1]) == nukta {
				if nc, ok := nuktaConsonants[r]; ok {
					c = nc
				}
				i++
			}
			sb.WriteString(c)
			pending = true
			continue
		}
		if v, ok := vowelSigns[r]; ok {
			pending = false
			sb.WriteString(v)
			continue
		}
		if v, ok := vowels[r]; ok {
			flush()
			sb.WriteString(v)
			continue
		}

		switch r {
		case virama:
			pending = false
		case anusvara, candrabind:
			flush()
			sb.WriteByte('n')
		case visarga:
			flush()
			sb.WriteByte('h')
		case nukta:
		default:
			if inIndicBlock(r) {
				continue
			}
			// a word boundary swallows the trailing schwa
			pending = false
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}

func foldGujarati(r rune) rune {
	if r >= 0x0A80 && r <= 0x0AFF {
		return r - gujaratiOffset
	}
	return r
}

func inIndicBlock(r rune) bool {
	return r >= 0x0900 && r <= 0x097F
}
