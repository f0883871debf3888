package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

const (
	openaiAPIURL       = "https://api.openai.com/v1/chat/completions"
	openaiDefaultModel = "gpt-4o"
)

// OpenAIProvider implements Provider using the OpenAI Chat Completions API.
type OpenAIProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewOpenAI creates an OpenAI provider using the OPENAI_API_KEY env var.
func NewOpenAI() (*OpenAIProvider, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("llm.NewOpenAI: OPENAI_API_KEY not set: %w", ErrNoProvider)
	}
	return &OpenAIProvider{apiKey: key, apiURL: openaiAPIURL, client: &http.Client{Timeout: defaultTimeout}}, nil
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	req := openaiRequest{
		Model:          s.Model,
		MaxTokens:      s.MaxTokens,
		Temperature:    s.Temperature,
		Seed:           s.Seed,
		Messages:       messages(s.System, prompt),
		ResponseFormat: &openaiResponseFormat{Type: "json_object"},
	}
	if req.Model == "" {
		req.Model = openaiDefaultModel
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 4096
	}

	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}
	var resp openaiResponse
	if err := postJSON(ctx, o.client, "openai", o.apiURL, headers, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("openai: response truncated at %d tokens", req.MaxTokens)
	}
	return resp.Choices[0].Message.Content, nil
}

func messages(system, prompt string) []openaiMessage {
	var msgs []openaiMessage
	if system != "" {
		msgs = append(msgs, openaiMessage{Role: "system", Content: system})
	}
	return append(msgs, openaiMessage{Role: "user", Content: prompt})
}

type openaiRequest struct {
	Model          string                `json:"model"`
	MaxTokens      int                   `json:"max_tokens"`
	Temperature    float64               `json:"temperature"`
	Seed           *int                  `json:"seed,omitempty"`
	Messages       []openaiMessage       `json:"messages"`
	ResponseFormat *openaiResponseFormat `json:"response_format,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponseFormat struct {
	Type string `json:"type"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}
