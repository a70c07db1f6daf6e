package normalize

import "voicebot/internal/locale"

var englishNumbers = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30,
	"forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90,
	"oh": 0,
}

var hindiNumbers = map[string]int{
	"शून्य": 0, "एक": 1, "दो": 2, "तीन": 3, "चार": 4,
	"पांच": 5, "पाँच": 5, "छह": 6, "छः": 6, "सात": 7,
	"आठ": 8, "नौ": 9, "दस": 10, "ग्यारह": 11, "बारह": 12,
	"तेरह": 13, "चौदह": 14, "पंद्रह": 15, "सोलह": 16,
	"सत्रह": 17, "अठारह": 18, "उन्नीस": 19, "बीस": 20,
	"इक्कीस": 21, "बाईस": 22, "तेईस": 23, "चौबीस": 24,
	"पच्चीस": 25, "छब्बीस": 26, "सत्ताईस": 27, "अट्ठाईस": 28,
	"उनतीस": 29, "तीस": 30, "इकतीस": 31, "बत्तीस": 32,
	"तैंतीस": 33, "चौतीस": 34, "पैंतीस": 35, "छत्तीस": 36,
	"सैंतीस": 37, "अड़तीस": 38, "उनतालीस": 39, "चालीस": 40,
	"इकतालीस": 41, "बयालीस": 42, "तैंतालीस": 43, "चवालीस": 44,
	"पैंतालीस": 45, "छियालीस": 46, "सैंतालीस": 47, "अड़तालीस": 48,
	"उनचास": 49, "पचास": 50, "इक्यावन": 51, "बावन": 52,
	"तिरपन": 53, "चौवन": 54, "पचपन": 55, "छप्पन": 56,
	"सत्तावन": 57, "अट्ठावन": 58, "उनसठ": 59, "साठ": 60,
	"इकसठ": 61, "बासठ": 62, "तिरसठ": 63, "चौसठ": 64,
	"पैंसठ": 65, "छियासठ": 66, "सड़सठ": 67, "अड़सठ": 68,
	"उनहत्तर": 69, "सत्तर": 70, "इकहत्तर": 71, "बाहत्तर": 72,
	"तिहत्तर": 73, "चौहत्तर": 74, "पचहत्तर": 75, "छहत्तर": 76,
	"सतहत्तर": 77, "अठहत्तर": 78, "उन्यासी": 79, "अस्सी": 80,
	"इक्यासी": 81, "बयासी": 82, "तिरासी": 83, "चौरासी": 84,
	"पचासी": 85, "छियासी": 86, "सतासी": 87, "अट्ठासी": 88,
	"नवासी": 89, "नब्बे": 90, "इक्यानवे": 91, "बानवे": 92,
	"तिरानवे": 93, "चौरानवे": 94, "पचानवे": 95, "छियानवे": 96,
	"सतानवे": 97, "अट्ठानवे": 98, "निन्यानवे": 99,
}

var marathiNumbers = map[string]int{
	"शून्य": 0, "एक": 1, "दोन": 2, "तीन": 3, "चार": 4,
	"पाच": 5, "सहा": 6, "सात": 7, "आठ": 8, "नऊ": 9,
	"दहा": 10, "अकरा": 11, "बारा": 12, "तेरा": 13,
	"चौदा": 14, "पंधरा": 15, "सोळा": 16, "सतरा": 17,
	"अठरा": 18, "एकोणीस": 19, "वीस": 20,
}

var gujaratiNumbers = map[string]int{
	"શૂન્ય": 0, "એક": 1, "બે": 2, "ત્રણ": 3, "ચાર": 4,
	"પાંચ": 5, "છ": 6, "સાત": 7, "આઠ": 8, "નવ": 9,
	"દસ": 10, "અગિયાર": 11, "બાર": 12, "તેર": 13,
	"ચૌદ": 14, "પંદર": 15, "સોળ": 16, "સત્તર": 17,
	"અઢાર": 18, "ઓગણીસ": 19, "વીસ": 20, "એકવીસ": 21,
	"બાવીસ": 22, "તેવીસ": 23, "ચોવીસ": 24, "પચ્ચીસ": 25,
	"છવીસ": 26, "સત્તાવીસ": 27, "અઠ્ઠાવીસ": 28, "ઓગણત્રીસ": 29,
	"ત્રીસ": 30, "એકત્રીસ": 31, "બત્રીસ": 32, "તેત્રીસ": 33,
	"ચોત્રીસ": 34, "પાંત્રીસ": 35, "છત્રીસ": 36, "સાડત્રીસ": 37,
	"અડત્રીસ": 38, "ઓગણચાલીસ": 39, "ચાલીસ": 40, "એકચાલીસ": 41,
	"બેતાલીસ": 42, "તેતાલીસ": 43, "ચુમાલીસ": 44, "પિસ્તાલીસ": 45,
	"છેતાલીસ": 46, "સુડતાલીસ": 47, "અડતાલીસ": 48, "ઓગણપચાસ": 49,
	"પચાસ": 50,
}

// scale words compose with the preceding number instead of being spelled out.
var scaleWords = map[string]int{
	"सौ": 100, "शंभर": 100, "સો": 100,
	"हज़ार": 1000, "हजार": 1000, "હજાર": 1000,
	"लाख": 100000, "લાખ": 100000,
	"करोड़": 10000000, "कोटी": 10000000, "કરોડ": 10000000,
}

var multiplierWords = map[string]int{
	"double": 2, "triple": 3,
	"डबल": 2, "ट्रिपल": 3,
	"ડબલ": 2, "ટ્રિપલ": 3,
}

func numberTable(lang locale.Language) map[string]int {
	switch lang {
	case locale.Hindi:
		return hindiNumbers
	case locale.Marathi:
		return marathiNumbers
	case locale.Gujarati:
		return gujaratiNumbers
	default:
		return englishNumbers
	}
}
