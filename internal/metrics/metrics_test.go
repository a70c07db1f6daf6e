package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New("voicebot_test")
	m.Turns.WithLabelValues("otp", "accepted").Inc()
	m.SessionResets.Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`voicebot_test_dialogue_turns_total{outcome="accepted",step="otp"} 1`,
		`voicebot_test_session_resets_total 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	// two instances in one process must not collide on registration
	a := New("voicebot_a")
	b := New("voicebot_a")
	if a.Registry() == b.Registry() {
		t.Fatal("expected distinct registries")
	}
}
