package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPListenAddr   string
	DatabaseURL      string
	MetricsNamespace string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	SessionStore  string
	SessionTTL    time.Duration
	SessionLock   time.Duration
	MaxRetries    int
	TurnRateLimit int64

	LLMProvider    string
	LLMTimeout     time.Duration
	OpenAIAPIKey   string
	OpenAIModel    string
	GeminiAPIKeys  []string
	GeminiModel    string
	GeminiCooldown time.Duration

	SBIEndpoint        string
	SBIClientID        string
	SBIClientSecret    string
	SBIAESKey          string
	SBIAESIV           string
	SBITimeout         time.Duration
	SBITokenTTL        time.Duration
	SBIOffline         bool
	HealthPolicySuffix string

	WhatsAppEnabled   bool
	WhatsAppStorePath string
	WhatsAppLogLevel  string
}

// Load returns configuration populated from environment variables with fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             getenvDefault("APP_ENV", "development"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:     getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		DatabaseURL:        trimmedEnv("DATABASE_URL"),
		MetricsNamespace:   getenvDefault("METRICS_NAMESPACE", "voicebot"),
		RedisAddr:          trimmedEnv("REDIS_ADDR"),
		RedisPassword:      trimmedEnv("REDIS_PASSWORD"),
		SessionStore:       strings.ToLower(getenvDefault("SESSION_STORE", "memory")),
		LLMProvider:        strings.ToLower(getenvDefault("LLM_PROVIDER", "openai")),
		OpenAIAPIKey:       trimmedEnv("OPENAI_API_KEY"),
		OpenAIModel:        getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKeys:      splitAndTrim(trimmedEnv("GEMINI_KEYS")),
		GeminiModel:        getenvDefault("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		SBIEndpoint:        getenvDefault("SBI_API_ENDPOINT", "https://devapi.sbigeneral.in/cld/uat"),
		SBIClientID:        trimmedEnv("SBI_CLIENT_ID"),
		SBIClientSecret:    trimmedEnv("SBI_CLIENT_SECRET"),
		SBIAESKey:          trimmedEnv("SBI_AES_KEY"),
		SBIAESIV:           trimmedEnv("SBI_AES_IV"),
		HealthPolicySuffix: getenvDefault("HEALTH_POLICY_SUFFIX", "4321"),
		WhatsAppStorePath:  getenvDefault("WHATSAPP_STORE_PATH", "data/wa-store.db"),
		WhatsAppLogLevel:   getenvDefault("WHATSAPP_LOG_LEVEL", "INFO"),
	}

	var err error
	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"SESSION_TTL", "30m", &cfg.SessionTTL},
		{"SESSION_LOCK_TTL", "90s", &cfg.SessionLock},
		{"LLM_TIMEOUT", "20s", &cfg.LLMTimeout},
		{"GEMINI_COOLDOWN", "24h", &cfg.GeminiCooldown},
		{"SBI_TIMEOUT", "15s", &cfg.SBITimeout},
		{"SBI_TOKEN_TTL", "50m", &cfg.SBITokenTTL},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(getenvDefault(d.key, d.fallback)); err != nil {
			return nil, fmt.Errorf("invalid %s duration: %w", d.key, err)
		}
		if *d.dst <= 0 {
			return nil, fmt.Errorf("%s must be positive", d.key)
		}
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}

	retries, convErr := strconv.Atoi(getenvDefault("MAX_RETRIES", "3"))
	if convErr != nil || retries < 1 {
		return nil, fmt.Errorf("invalid MAX_RETRIES value %q", getenvDefault("MAX_RETRIES", "3"))
	}
	cfg.MaxRetries = retries

	limit, convErr := strconv.ParseInt(getenvDefault("TURN_RATE_LIMIT", "30"), 10, 64)
	if convErr != nil {
		return nil, fmt.Errorf("invalid TURN_RATE_LIMIT value: %w", convErr)
	}
	if limit < 0 {
		limit = 0
	}
	cfg.TurnRateLimit = limit

	cfg.RedisTLS = strings.EqualFold(getenvDefault("REDIS_TLS", "false"), "true")
	cfg.SBIOffline = strings.EqualFold(getenvDefault("SBI_OFFLINE", "false"), "true")
	cfg.WhatsAppEnabled = strings.EqualFold(getenvDefault("WHATSAPP_ENABLED", "false"), "true")

	switch cfg.SessionStore {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("SESSION_STORE must be memory or redis, got %q", cfg.SessionStore)
	}

	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case "gemini":
		if len(cfg.GeminiAPIKeys) == 0 {
			return nil, fmt.Errorf("GEMINI_KEYS cannot be empty when LLM_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be openai or gemini, got %q", cfg.LLMProvider)
	}

	if !cfg.SBIOffline {
		if _, err := url.ParseRequestURI(cfg.SBIEndpoint); err != nil {
			return nil, fmt.Errorf("invalid SBI_API_ENDPOINT: %w", err)
		}
		if cfg.SBIClientID == "" || cfg.SBIClientSecret == "" {
			return nil, fmt.Errorf("SBI_CLIENT_ID and SBI_CLIENT_SECRET are required unless SBI_OFFLINE=true")
		}
		if len(cfg.SBIAESKey) != 32 {
			return nil, fmt.Errorf("SBI_AES_KEY must be 32 bytes")
		}
		if len(cfg.SBIAESIV) != 12 {
			return nil, fmt.Errorf("SBI_AES_IV must be 12 bytes")
		}
	}

	if len(cfg.HealthPolicySuffix) != 4 || strings.Trim(cfg.HealthPolicySuffix, "0123456789") != "" {
		return nil, fmt.Errorf("HEALTH_POLICY_SUFFIX must be 4 digits")
	}

	cfg.SBIEndpoint = strings.TrimRight(cfg.SBIEndpoint, "/")

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
