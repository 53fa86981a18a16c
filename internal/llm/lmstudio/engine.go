package lmstudio

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/thanhng/foodchat/internal/llm"
)

const pingTimeout = 5 * time.Second

// Engine implements llm.Engine against an LM Studio style
// OpenAI-compatible server.
type Engine struct {
	client      *openai.Client
	model       string
	temperature float32
}

// New creates an engine for the given base URL. The API key is a dummy
// string for local servers but is forwarded as-is.
func New(baseURL, apiKey, model string, temperature float32) *Engine {
	if model == "" {
		model = "google/gemma-3-1b"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Engine{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

// Complete runs a blocking chat completion.
func (e *Engine) Complete(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    toOpenAI(messages),
		Temperature: e.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("engine returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// CompleteStream opens an incremental completion stream.
func (e *Engine) CompleteStream(ctx context.Context, messages []llm.Message) (llm.Stream, error) {
	stream, err := e.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    toOpenAI(messages),
		Temperature: e.temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}

	return &deltaStream{inner: stream}, nil
}

// Ping verifies connectivity with a one-token completion, the cheapest
// request the engine accepts.
func (e *Engine) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "test"},
		},
		MaxTokens: 1,
	})
	return err
}

// deltaStream adapts the SDK stream to llm.Stream, surfacing only the
// text delta of each event.
type deltaStream struct {
	inner *openai.ChatCompletionStream
}

func (s *deltaStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		// io.EOF passes through untouched to mark a clean end.
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *deltaStream) Close() error {
	return s.inner.Close()
}

func toOpenAI(messages []llm.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
