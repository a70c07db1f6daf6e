package nlu

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"voicebot/internal/metrics"

	"log/slog"
)

const (
	geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"
	providerName  = "gemini"
)

// GeminiClient talks to the Gemini REST API, rotating across keys and
// parking a key after quota or auth failures.
type GeminiClient struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	httpClient *http.Client
	baseURL    string
	model      string
	timeout    time.Duration
	cooldown   time.Duration
	keys       []apiKey

	mu            sync.Mutex
	cooldownUntil map[string]time.Time
}

type apiKey struct {
	ID    string
	Value string
}

type callResult struct {
	text string
	key  string
	err  error
}

// GeminiConfig holds Gemini client configuration.
type GeminiConfig struct {
	APIKeys  []string
	Model    string
	Timeout  time.Duration
	Cooldown time.Duration
	BaseURL  string
}

// NewGemini creates a Gemini client.
func NewGemini(logger *slog.Logger, metrics *metrics.Metrics, cfg GeminiConfig) *GeminiClient {
	keys := make([]apiKey, 0, len(cfg.APIKeys))
	for i, v := range cfg.APIKeys {
		keys = append(keys, apiKey{ID: fmt.Sprintf("key-%d", i+1), Value: v})
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = geminiAPIBase
	}
	return &GeminiClient{
		logger:        logger.With("component", "nlu", "provider", providerName),
		metrics:       metrics,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       base,
		model:         cfg.Model,
		timeout:       cfg.Timeout,
		cooldown:      cfg.Cooldown,
		keys:          keys,
		cooldownUntil: map[string]time.Time{},
	}
}

// Complete sends prompt as a single user turn and returns the candidate text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:     0,
			MaxOutputTokens: 256,
		},
	}
	text, keyUsed, err := c.callGemini(ctx, payload)
	if err != nil {
		return "", err
	}
	c.logger.Debug("gemini completion", "key", keyUsed, "chars", len(text))
	return text, nil
}

// TranscribeAudio converts a voice note into text in the caller's language.
func (c *GeminiClient) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload empty")
	}
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{Text: "Transcribe this voice note verbatim in the language it is spoken (English, Hindi, Marathi or Gujarati). Write numbers the way they are spoken. Reply with the transcript only."},
					{InlineData: &inlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(audio),
					}},
				},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 256,
		},
	}

	text, _, err := c.callGemini(ctx, payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *GeminiClient) callGemini(ctx context.Context, payload geminiRequest) (string, string, error) {
	var lastErr error

	for _, k := range c.keys {
		if c.coolingDown(k.ID) {
			continue
		}

		res := c.invokeWithKey(ctx, k, payload)
		if res.err == nil {
			c.metrics.LLMRequests.WithLabelValues(providerName, "success").Inc()
			return res.text, res.key, nil
		}
		lastErr = res.err

		if errors.Is(res.err, errQuotaExceeded) || errors.Is(res.err, errUnauthorised) {
			c.park(k.ID)
			c.logger.Warn("gemini key parked", "key", k.ID, "error", res.err, "cooldown", c.cooldown)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no available gemini keys")
	}
	c.metrics.LLMRequests.WithLabelValues(providerName, "failed").Inc()
	return "", "", lastErr
}

func (c *GeminiClient) coolingDown(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.cooldownUntil[id]
	return ok && time.Now().Before(until)
}

func (c *GeminiClient) park(id string) {
	c.mu.Lock()
	c.cooldownUntil[id] = time.Now().Add(c.cooldown)
	c.mu.Unlock()
}

func (c *GeminiClient) invokeWithKey(ctx context.Context, key apiKey, payload geminiRequest) callResult {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return callResult{err: fmt.Errorf("marshal payload: %w", err)}
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, key.Value)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return callResult{err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.LLMRequests.WithLabelValues(providerName, "error").Inc()
		return callResult{err: fmt.Errorf("gemini http: %w", err)}
	}
	defer resp.Body.Close()

	latency := time.Since(start).Seconds()
	statusLabel := fmt.Sprintf("%d", resp.StatusCode)
	c.metrics.LLMLatency.WithLabelValues(providerName, statusLabel).Observe(latency)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return callResult{err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode == http.StatusOK {
		text, err := extractCandidateText(body)
		if err != nil {
			return callResult{err: err}
		}
		return callResult{text: text, key: key.ID}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return callResult{err: errQuotaExceeded}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return callResult{err: errUnauthorised}
	}

	return callResult{err: fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, string(body))}
}

func extractCandidateText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("no candidate text found")
}

var (
	errQuotaExceeded = errors.New("gemini quota exceeded")
	errUnauthorised  = errors.New("gemini unauthorised")
)

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int32   `json:"maxOutputTokens,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Role  string       `json:"role"`
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
