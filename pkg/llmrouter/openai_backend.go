package llmrouter

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend wraps go-openai and serves every provider in the fallback
// chain that speaks the OpenAI chat-completions wire format: OpenAI
// itself, Groq, and self-hosted OpenAI-compatible endpoints for the
// Llama/Mixtral family (configured via BaseURL).
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a backend for one model. apiKey and baseURL are
// read by the caller from the provider's credential env var
// (SPEC_FULL.md §6: "absence of a credential disables that adapter
// without erroring" — callers gate on ModelSpec.Credentialed, not here).
func NewOpenAIBackend(apiKey, baseURL, model string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

func toOpenAIMessages(msgs []ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func (b *OpenAIBackend) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		if isTransientOpenAIError(err) {
			return ChatResponse{}, &TransientError{Cause: err}
		}
		return ChatResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, &TransientError{Cause: errors.New("empty choices in response")}
	}
	return ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// isTransientOpenAIError classifies go-openai's error types per
// SPEC_FULL.md §4.1: network errors, 429, and 5xx are transient; other 4xx
// responses are fatal for the current model and must abort the chain.
func isTransientOpenAIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return true
		}
		return apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
