package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"voicebot/internal/metrics"
)

func geminiReply(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}}},
		},
	})
	return body
}

func TestGeminiCompleteRotatesKeys(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
		if !strings.Contains(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if key == "spent" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(geminiReply(`{"otp": "123456"}`))
	}))
	defer srv.Close()

	c := NewGemini(discardLogger(), metrics.New("nlu_test"), GeminiConfig{
		APIKeys:  []string{"spent", "fresh"},
		Model:    "test-model",
		Timeout:  time.Second,
		Cooldown: time.Hour,
		BaseURL:  srv.URL,
	})

	for i := 0; i < 2; i++ {
		text, err := c.Complete(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if text != `{"otp": "123456"}` {
			t.Fatalf("text = %q", text)
		}
	}

	// the spent key is parked after the first 429 and never retried
	want := []string{"spent", "fresh", "fresh"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("keys used = %v, want %v", seen, want)
	}
}

func TestGeminiAllKeysFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewGemini(discardLogger(), metrics.New("nlu_test"), GeminiConfig{
		APIKeys: []string{"a"}, Model: "m", Timeout: time.Second, Cooldown: time.Hour, BaseURL: srv.URL,
	})
	if _, err := c.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.Complete(context.Background(), "p"); err == nil || !strings.Contains(err.Error(), "no available") {
		t.Fatalf("second call err = %v", err)
	}
}

func TestGeminiTranscribeAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		parts := req.Contents[0].Parts
		if len(parts) != 2 || parts[1].InlineData == nil || parts[1].InlineData.MimeType != "audio/ogg" {
			t.Errorf("unexpected parts: %+v", parts)
		}
		_, _ = w.Write(geminiReply("  double one two three \n"))
	}))
	defer srv.Close()

	c := NewGemini(discardLogger(), metrics.New("nlu_test"), GeminiConfig{
		APIKeys: []string{"k"}, Model: "m", Timeout: time.Second, BaseURL: srv.URL,
	})
	text, err := c.TranscribeAudio(context.Background(), []byte{1, 2, 3}, "")
	if err != nil {
		t.Fatalf("TranscribeAudio: %v", err)
	}
	if text != "double one two three" {
		t.Errorf("text = %q", text)
	}
	if _, err := c.TranscribeAudio(context.Background(), nil, ""); err == nil {
		t.Error("empty audio should fail")
	}
}
