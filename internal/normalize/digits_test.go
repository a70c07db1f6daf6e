package normalize

import (
	"testing"

	"voicebot/internal/locale"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lang  locale.Language
		mode  Mode
		want  string
	}{
		{"english words and digits", "double one 2 three 4 five 6 seven 8", locale.English, Concat, "112345678"},
		{"triple", "triple nine four", locale.English, Concat, "9994"},
		{"chunked english", "sixty 20 1 2", locale.English, Concat, "602012"},
		{"plain digits", "98765 43210", locale.English, Concat, "9876543210"},
		{"unknown words dropped", "my number is nine eight", locale.English, Concat, "98"},
		{"gujarati zeros", "શૂન્ય શૂન્ય શૂન્ય પાંચ", locale.Gujarati, Concat, "0005"},
		{"gujarati glyphs", "૧૨૩૪", locale.Gujarati, Concat, "1234"},
		{"hindi words", "एक दो तीन चार", locale.Hindi, Concat, "1234"},
		{"hindi double", "डबल सात आठ", locale.Hindi, Concat, "778"},
		{"hindi glyphs", "९८७६५", locale.Hindi, Concat, "98765"},
		{"marathi words", "पाच सहा सात", locale.Marathi, Concat, "567"},
		{"english inside hindi", "one दो three", locale.Hindi, Concat, "123"},
		{"hindi scale compound", "पाँच लाख सड़सठ हज़ार आठ सौ तैंतालीस", locale.Hindi, Concat, "567843"},
		{"grouped keeps hour and minute", "21 45", locale.English, Grouped, "21 45"},
		{"grouped splits colon", "21:45", locale.English, Grouped, "21 45"},
		{"concat collapses groups", "21 45", locale.English, Concat, "2145"},
		{"empty", "", locale.English, Concat, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Digits(tt.input, tt.lang, tt.mode); got != tt.want {
				t.Errorf("Digits(%q, %s) = %q, want %q", tt.input, tt.lang, got, tt.want)
			}
		})
	}
}

func TestASCIIDigits(t *testing.T) {
	if got := ASCIIDigits("OTP ४५६ and ૭૮૯"); got != "OTP 456 and 789" {
		t.Errorf("ASCIIDigits = %q", got)
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("12-34 ab5"); got != "12345" {
		t.Errorf("DigitsOnly = %q", got)
	}
}
