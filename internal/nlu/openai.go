package nlu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"voicebot/internal/metrics"
)

const openAIProvider = "openai"

// chatService is the slice of the OpenAI SDK the client needs.
type chatService interface {
	Create(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type completionsService struct {
	svc *openai.ChatCompletionService
}

func (s completionsService) Create(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return s.svc.New(ctx, params)
}

// OpenAIConfig holds OpenAI client configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClient runs extraction prompts through chat completions.
type OpenAIClient struct {
	chat    chatService
	model   openai.ChatModel
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewOpenAI builds a client from an API key.
func NewOpenAI(logger *slog.Logger, metrics *metrics.Metrics, cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return newOpenAIWithService(completionsService{svc: &cli.Chat.Completions}, logger, metrics, cfg), nil
}

func newOpenAIWithService(chat chatService, logger *slog.Logger, metrics *metrics.Metrics, cfg OpenAIConfig) *OpenAIClient {
	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &OpenAIClient{
		chat:    chat,
		model:   model,
		timeout: timeout,
		logger:  logger.With("component", "nlu", "provider", openAIProvider),
		metrics: metrics,
	}
}

// Complete sends prompt as one user message at temperature 0.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.chat.Create(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(0),
	})
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.LLMRequests.WithLabelValues(openAIProvider, status).Inc()
	c.metrics.LLMLatency.WithLabelValues(openAIProvider, status).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	c.logger.Debug("openai completion", "model", c.model, "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
