package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient implements Client using the official Anthropic SDK.
type anthropicClient struct {
	cfg      Config
	client   *anthropic.Client
	observer Observer
}

// NewAnthropicClient creates a Client backed by the Anthropic Messages API.
func NewAnthropicClient(cfg Config, observer Observer) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &anthropicClient{
		cfg:      cfg,
		client:   anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		observer: observer,
	}, nil
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	temp := c.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       anthropic.F(c.cfg.Model),
		MaxTokens:   anthropic.F(int64(maxTok)),
		Temperature: anthropic.F(temp),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		}),
	}
	if req.SystemPrompt != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			{
				Type: anthropic.F(anthropic.TextBlockParamTypeText),
				Text: anthropic.F(req.SystemPrompt),
			},
		})
	}

	message, err := c.client.Messages.New(ctx, params)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		mapped := c.mapError(ctx, err)
		c.observer.OnCallComplete(CallEvent{
			Provider:  ProviderAnthropic,
			Model:     c.cfg.Model,
			LatencyMs: latency,
			Success:   false,
			ErrorCode: ErrorCode(mapped),
		})
		return nil, mapped
	}

	var text string
	for _, block := range message.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			text += block.Text
		}
	}
	if text == "" {
		c.observer.OnCallComplete(CallEvent{
			Provider:  ProviderAnthropic,
			Model:     c.cfg.Model,
			LatencyMs: latency,
			Success:   false,
			ErrorCode: ErrorCode(ErrInvalidOutput),
		})
		return nil, fmt.Errorf("%w: response contained no text blocks", ErrInvalidOutput)
	}

	c.observer.OnCallComplete(CallEvent{
		Provider:  ProviderAnthropic,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   true,
	})

	return &GenerateResponse{
		Text:      text,
		Model:     string(message.Model),
		LatencyMs: latency,
	}, nil
}

func (c *anthropicClient) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if isConnectionError(err) {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}
