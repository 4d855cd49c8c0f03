package llmrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// GeminiBackend is a small REST client for Gemini's generateContent
// endpoint. No repo in the retrieval pack ships a Gemini-native Go
// client (the teacher's pkg/llm/client.go reaches Gemini only indirectly,
// through a gRPC hop to a separate Python LLM microservice this design
// does not have); the call shape here is a single POST with a JSON
// request/response, which does not justify adding an unretrieved
// dependency for one provider. See DESIGN.md.
type GeminiBackend struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string // override for tests
}

func NewGeminiBackend(httpClient *http.Client, apiKey, model string) *GeminiBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiBackend{
		httpClient: httpClient,
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
	}
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// toGeminiRole maps this package's roles to Gemini's two-role model
// ("user" and "model"); system messages are folded into a leading user
// turn since Gemini's REST API predates first-class system instructions
// in some model versions.
func toGeminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

func (b *GeminiBackend) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	contents := make([]geminiContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		contents = append(contents, geminiContent{
			Role:  toGeminiRole(m.Role),
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         contents,
		GenerationConfig: geminiGenerationConfig{Temperature: req.Temperature},
	})
	if err != nil {
		return ChatResponse{}, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", b.baseURL, b.model, b.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return ChatResponse{}, &TransientError{Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, &TransientError{Cause: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return ChatResponse{}, &TransientError{Cause: fmt.Errorf("gemini http %d: %s", resp.StatusCode, data)}
	}
	if resp.StatusCode >= 400 {
		return ChatResponse{}, fmt.Errorf("gemini http %d: %s", resp.StatusCode, data)
	}

	var gr geminiResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return ChatResponse{}, &TransientError{Cause: err}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return ChatResponse{}, &TransientError{Cause: errors.New("gemini: empty candidates")}
	}

	return ChatResponse{
		Content: gr.Candidates[0].Content.Parts[0].Text,
		Usage: Usage{
			PromptTokens:     gr.UsageMetadata.PromptTokenCount,
			CompletionTokens: gr.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}
