package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompletion serves a fixed chat completion response and counts calls.
type stubCompletion struct {
	calls   atomic.Int64
	content string
	lastReq openai.ChatCompletionRequest
}

func (s *stubCompletion) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&s.lastReq)

		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o-2024-08-06",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: s.content}},
			},
			Usage: openai.Usage{PromptTokens: 42, CompletionTokens: 117, TotalTokens: 159},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newStubClient(t *testing.T, stub *stubCompletion) *Client {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewClientWithConfig(cfg, "gpt-4o")
}

func TestGenerate_ReturnsContentAndUsage(t *testing.T) {
	stub := &stubCompletion{content: "## Landing page plan"}
	client := newStubClient(t, stub)

	result, err := client.Generate(context.Background(), "Build a landing page for a todo app")
	require.NoError(t, err)
	assert.Equal(t, "## Landing page plan", result.Content)
	assert.Equal(t, "gpt-4o-2024-08-06", result.Model)
	assert.Equal(t, Usage{PromptTokens: 42, CompletionTokens: 117, TotalTokens: 159}, result.Usage)
	assert.Equal(t, int64(1), stub.calls.Load())
}

func TestGenerate_SendsSystemInstructionFirst(t *testing.T) {
	stub := &stubCompletion{content: "ok"}
	client := newStubClient(t, stub)

	_, err := client.Generate(context.Background(), "A prompt")
	require.NoError(t, err)

	require.Len(t, stub.lastReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, stub.lastReq.Messages[0].Role)
	assert.Equal(t, SystemPrompt, stub.lastReq.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, stub.lastReq.Messages[1].Role)
	assert.Equal(t, "A prompt", stub.lastReq.Messages[1].Content)
	assert.Equal(t, "gpt-4o", stub.lastReq.Model)
}

func TestGenerate_EmptyPromptRejectedBeforeUpstream(t *testing.T) {
	stub := &stubCompletion{content: "never"}
	client := newStubClient(t, stub)

	_, err := client.Generate(context.Background(), "   \n ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Equal(t, int64(0), stub.calls.Load())
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{Model: "gpt-4o"})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	client := NewClientWithConfig(cfg, "gpt-4o")

	_, err := client.Generate(context.Background(), "A prompt")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_UpstreamErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	client := NewClientWithConfig(cfg, "gpt-4o")

	_, err := client.Generate(context.Background(), "A prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}

func TestNewClient_DefaultModel(t *testing.T) {
	c := NewClient("key", "")
	assert.Equal(t, openai.GPT4o, c.model)
}
