package normalize

import (
	"testing"

	"voicebot/internal/locale"
)

func TestInferMeridiem(t *testing.T) {
	tests := []struct {
		input string
		lang  locale.Language
		want  Meridiem
	}{
		{"13", locale.English, PM},
		{"23", locale.English, PM},
		{"12", locale.English, PM},
		{"0", locale.English, AM},
		{"4", locale.English, Undetermined},
		{"11", locale.English, Undetermined},
		{"24", locale.English, Undetermined},
		{"around 5 in the morning", locale.English, AM},
		{"7 PM", locale.English, PM},
		{"late at night", locale.English, PM},
		{"my name is raman", locale.English, Undetermined},
		{"सुबह दस बजे", locale.Hindi, AM},
		{"शाम को", locale.Hindi, PM},
		{"संध्याकाळी सात", locale.Marathi, PM},
		{"સવારે", locale.Gujarati, AM},
		{"રાત્રે", locale.Gujarati, PM},
		{"evening", locale.Hindi, PM},
		{"१५", locale.Hindi, PM},
		{"", locale.English, Undetermined},
	}
	for _, tt := range tests {
		if got := InferMeridiem(tt.input, tt.lang); got != tt.want {
			t.Errorf("InferMeridiem(%q, %s) = %q, want %q", tt.input, tt.lang, got, tt.want)
		}
	}
}
