package nlu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]string
		wantErr bool
	}{
		{"plain", `{"otp": "123456"}`, map[string]string{"otp": "123456"}, false},
		{"null value", `{"otp": null}`, map[string]string{"otp": ""}, false},
		{"number value", `{"policy_number": 12345678}`, map[string]string{"policy_number": "12345678"}, false},
		{"fenced", "```json\n{\"city_of_accident\": \"Mumbai\"}\n```", map[string]string{"city_of_accident": "Mumbai"}, false},
		{"prose around", `Sure! Here it is: {"am_pm": "PM"} hope that helps`, map[string]string{"am_pm": "PM"}, false},
		{"braces in strings", `note {"who_driver": "no {one}"} end`, map[string]string{"who_driver": "no {one}"}, false},
		{"two fields", `{"time_of_accident": "05:30:00", "am_pm": "PM"}`, map[string]string{"time_of_accident": "05:30:00", "am_pm": "PM"}, false},
		{"not json", `I could not find an OTP`, nil, true},
		{"unbalanced", `{"otp": "12`, nil, true},
		{"array", `["123456"]`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObject(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseable) {
					t.Fatalf("err = %v, want ErrUnparseable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestExtractFieldBuildsPrompt(t *testing.T) {
	fc := &fakeCompleter{reply: `{"date_of_accident": "16/12/2024"}`}
	x := NewExtractor(fc, discardLogger())
	x.now = func() time.Time { return time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC) }

	got, err := x.ExtractField(context.Background(), "date_of_accident", "सोलह दिसंबर", "hindi")
	if err != nil {
		t.Fatalf("ExtractField: %v", err)
	}
	if got["date_of_accident"] != "16/12/2024" {
		t.Errorf("value = %q", got["date_of_accident"])
	}
	if len(fc.prompts) != 1 {
		t.Fatalf("prompts sent = %d", len(fc.prompts))
	}
	p := fc.prompts[0]
	for _, want := range []string{"20 December 2024", "**date_of_accident**", "User input: सोलह दिसंबर", "Language: hindi"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractFieldErrors(t *testing.T) {
	transport := errors.New("deadline exceeded")
	x := NewExtractor(&fakeCompleter{err: transport}, discardLogger())
	if _, err := x.ExtractField(context.Background(), "otp", "x", "english"); !errors.Is(err, transport) || errors.Is(err, ErrUnparseable) {
		t.Fatalf("transport err = %v", err)
	}

	x = NewExtractor(&fakeCompleter{reply: "no idea"}, discardLogger())
	if _, err := x.ExtractField(context.Background(), "otp", "x", "english"); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("parse err = %v", err)
	}
}

func TestBuildPromptTimeIncludesClock(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	p := BuildPrompt("time_of_accident", now, "530 evening", "english")
	if !strings.Contains(p, "15:04:05") || !strings.Contains(p, "am_pm") {
		t.Errorf("time prompt = %q", p)
	}
	if p := BuildPrompt("unknown_field", now, "x", "english"); !strings.Contains(p, "**unknown_field**") {
		t.Errorf("generic prompt = %q", p)
	}
}
