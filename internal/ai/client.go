package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/unicollab/study-api/pkg/config"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

// Client calls an OpenAI-compatible chat-completion endpoint. The base URL
// is configurable so the same client works against OpenRouter or any other
// compatible provider. Every call carries its own timeout, shorter than the
// pipeline's end-to-end budget, so an unresponsive provider cannot hold a
// request open indefinitely.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient builds a completion client from injected configuration.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     timeout,
		logger:      logger,
	}
}

// Complete sends a single-user-message chat completion and returns the raw
// reply text. Transport failures, non-success responses and replies without
// a completion payload all surface as a provider error; the caller decides
// how that maps to the pipeline.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrAIProvider.Code, appErrors.ErrAIProvider.Status, "ai provider request failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", appErrors.Clone(appErrors.ErrAIProvider, "ai provider returned no completion")
	}

	c.logger.Debug("completion received",
		zap.String("model", c.model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("prompt_chars", len(prompt)),
	)
	return resp.Choices[0].Message.Content, nil
}
