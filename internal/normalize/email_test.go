package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"vinay dot rathod at gmail dot com", "vinay.rathod@gmail.com"},
		{"Vinay.Rathod@Gmail.com", "vinay.rathod@gmail.com"},
		{"amit underscore shah at the rate yahoo dot co dot in", "amit_shah@yahoo.co.in"},
		{"ravi dash 12 at rediffmail dot com", "ravi-12@rediffmail.com"},
		{"अमित एट जीमेल डॉट कॉम", "amit@gmail.com"},
		{"शाह एट जीमेल डॉट कॉम", "shah@gmail.com"},
		{"priya at at gmail dot dot com", "priya@gmail.com"},
		{"at john at gmail dot com dot", "john@gmail.com"},
		{"raj ४२ at gmail dot com", "raj42@gmail.com"},
	}
	for _, tt := range tests {
		if got := Email(tt.input); got != tt.want {
			t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"vinay.rathod@gmail.com", true},
		{"a_b-c@mail.co.in", true},
		{"no-at-sign.com", false},
		{"two@@signs.com", false},
		{"a@b@c.com", false},
		{"missing@tld", false},
		{"space in@gmail.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.input); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRomanize(t *testing.T) {
	tests := map[string]string{
		"अमित":  "amit",
		"शाह":   "shah",
		"राहुल": "rahul",
		"વિનય":  "vinay",
		"abc12": "abc12",
	}
	for in, want := range tests {
		if got := Romanize(in); got != want {
			t.Errorf("Romanize(%q) = %q, want %q", in, got, want)
		}
	}
}
