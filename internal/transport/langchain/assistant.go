// Package langchain provides the AI assistant backend over any
// OpenAI-compatible chat completion API.
package langchain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/metrics"
)

// Request policy: the timeout and retry budget live here, in the client,
// so callers never wait on a misbehaving model.
const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 2
)

// Assistant completes chat prompts against an OpenAI-compatible backend.
type Assistant struct {
	client  llms.Model
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the assistant backend settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates an assistant client.
func New(cfg *Config) (*Assistant, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create assistant client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Assistant{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		logger:  cfg.Logger,
	}, nil
}

// Complete sends a system instruction and user message, returning the
// model's trimmed text response. Retries transient failures up to twice.
func (a *Assistant) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.3))
		if err != nil {
			lastErr = err
			a.logger.Warn("assistant completion failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if len(resp.Choices) == 0 {
			metrics.AssistantRequestsTotal.WithLabelValues(a.model, "empty").Inc()
			return "", fmt.Errorf("assistant returned no choices")
		}

		metrics.AssistantRequestsTotal.WithLabelValues(a.model, "success").Inc()
		return strings.TrimSpace(resp.Choices[0].Content), nil
	}

	metrics.AssistantRequestsTotal.WithLabelValues(a.model, "error").Inc()
	return "", fmt.Errorf("assistant completion: %w", lastErr)
}
