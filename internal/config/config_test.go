package config

import (
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_LISTEN_ADDR", "DATABASE_URL", "METRICS_NAMESPACE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS",
	"SESSION_STORE", "SESSION_TTL", "SESSION_LOCK_TTL", "MAX_RETRIES", "TURN_RATE_LIMIT",
	"LLM_PROVIDER", "LLM_TIMEOUT", "OPENAI_API_KEY", "OPENAI_MODEL",
	"GEMINI_KEYS", "GEMINI_MODEL", "GEMINI_COOLDOWN",
	"SBI_API_ENDPOINT", "SBI_CLIENT_ID", "SBI_CLIENT_SECRET", "SBI_AES_KEY", "SBI_AES_IV",
	"SBI_TIMEOUT", "SBI_TOKEN_TTL", "SBI_OFFLINE", "HEALTH_POLICY_SUFFIX",
	"WHATSAPP_ENABLED", "WHATSAPP_STORE_PATH", "WHATSAPP_LOG_LEVEL",
}

// clearEnv blanks every known key; getenvDefault treats blank as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SBI_OFFLINE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.SessionLock != 90*time.Second {
		t.Errorf("SessionTTL = %v SessionLock = %v", cfg.SessionTTL, cfg.SessionLock)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.SessionStore != "memory" || cfg.LLMProvider != "openai" {
		t.Errorf("store/provider = %s/%s", cfg.SessionStore, cfg.LLMProvider)
	}
	if cfg.HealthPolicySuffix != "4321" {
		t.Errorf("HealthPolicySuffix = %s", cfg.HealthPolicySuffix)
	}
	if !cfg.SBIOffline || cfg.WhatsAppEnabled {
		t.Errorf("flags offline=%v whatsapp=%v", cfg.SBIOffline, cfg.WhatsAppEnabled)
	}
}

func TestLoadOnlineBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_KEYS", " k1, ,k2 ")
	t.Setenv("SBI_API_ENDPOINT", "https://api.example.com/uat/")
	t.Setenv("SBI_CLIENT_ID", "id")
	t.Setenv("SBI_CLIENT_SECRET", "secret")
	t.Setenv("SBI_AES_KEY", strings.Repeat("k", 32))
	t.Setenv("SBI_AES_IV", strings.Repeat("i", 12))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.GeminiAPIKeys) != 2 || cfg.GeminiAPIKeys[1] != "k2" {
		t.Errorf("GeminiAPIKeys = %v", cfg.GeminiAPIKeys)
	}
	if cfg.SBIEndpoint != "https://api.example.com/uat" {
		t.Errorf("SBIEndpoint = %s", cfg.SBIEndpoint)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing openai key", map[string]string{"SBI_OFFLINE": "true"}, "OPENAI_API_KEY"},
		{"bad provider", map[string]string{"SBI_OFFLINE": "true", "LLM_PROVIDER": "bard"}, "LLM_PROVIDER"},
		{"bad ttl", map[string]string{"SBI_OFFLINE": "true", "OPENAI_API_KEY": "x", "SESSION_TTL": "soon"}, "SESSION_TTL"},
		{"redis store without addr", map[string]string{"SBI_OFFLINE": "true", "OPENAI_API_KEY": "x", "SESSION_STORE": "redis"}, "REDIS_ADDR"},
		{"online without credentials", map[string]string{"OPENAI_API_KEY": "x"}, "SBI_CLIENT_ID"},
		{"short aes key", map[string]string{"OPENAI_API_KEY": "x", "SBI_CLIENT_ID": "a", "SBI_CLIENT_SECRET": "b", "SBI_AES_KEY": "short"}, "SBI_AES_KEY"},
		{"bad suffix", map[string]string{"SBI_OFFLINE": "true", "OPENAI_API_KEY": "x", "HEALTH_POLICY_SUFFIX": "12a4"}, "HEALTH_POLICY_SUFFIX"},
		{"bad retries", map[string]string{"SBI_OFFLINE": "true", "OPENAI_API_KEY": "x", "MAX_RETRIES": "0"}, "MAX_RETRIES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
