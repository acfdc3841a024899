package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

// ChatMessage is one turn of a chat completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the messages and optional per-call overrides.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is the assistant reply plus usage accounting.
type ChatResponse struct {
	Message      string `json:"message"`
	TokensUsed   int    `json:"tokens_used"`
	FinishReason string `json:"finish_reason"`
}

// ChatCompleter is the surface services depend on so tests can substitute
// a fake completer.
type ChatCompleter interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps the OpenAI chat completion API with configured defaults.
type Client struct {
	api         completionAPI
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logg        *logger.Logger
}

// NewClient builds an OpenAI-backed client from configuration.
func NewClient(cfg config.OpenAIConfig, logg *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	return &Client{
		api:         openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logg:        logg,
	}, nil
}

// Chat sends a chat completion request and returns the first choice.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	duration := time.Since(start)

	if err != nil {
		if c.logg != nil {
			c.logg.Error(c.logg.WithFields(ctx, map[string]any{
				"model":       c.model,
				"duration_ms": duration.Milliseconds(),
			}), "openai chat completion failed", err)
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	if c.logg != nil {
		c.logg.Info(c.logg.WithFields(ctx, map[string]any{
			"model":       c.model,
			"tokens":      resp.Usage.TotalTokens,
			"duration_ms": duration.Milliseconds(),
		}), "openai chat completion finished")
	}

	return &ChatResponse{
		Message:      resp.Choices[0].Message.Content,
		TokensUsed:   resp.Usage.TotalTokens,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// Complete is a helper for single-prompt calls with an optional system prompt.
func (c *Client) Complete(ctx context.Context, prompt, systemPrompt string) (string, error) {
	messages := []ChatMessage{}
	if systemPrompt != "" {
		messages = append(messages, ChatMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, ChatMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := c.Chat(ctx, ChatRequest{Messages: messages})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
