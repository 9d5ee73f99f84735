// Package generate bridges compiled prompts to the upstream text-generation
// service and keeps a short per-user history of results.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrEmptyPrompt is returned before any upstream call when the compiled
	// prompt has no content.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrEmptyResponse is returned when the upstream answered without text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Usage mirrors the upstream token accounting, passed through verbatim.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is one generation round trip.
type Result struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Client sends a compiled prompt to the model behind a fixed system
// instruction. No retries; a failed call is surfaced to the caller once.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a generation client for the given API key and model.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT4o
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

// NewClientWithConfig creates a client against a custom endpoint. Used by
// tests to point at a local stub server.
func NewClientWithConfig(cfg openai.ClientConfig, model string) *Client {
	if model == "" {
		model = openai.GPT4o
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Generate sends the compiled prompt and returns the model's text verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	return &Result{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
