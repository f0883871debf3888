package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicDefaultModel = "claude-sonnet-4-6"
	anthropicAPIVersion   = "2023-06-01"
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewAnthropic creates an Anthropic provider using the ANTHROPIC_API_KEY env var.
func NewAnthropic() (*AnthropicProvider, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("llm.NewAnthropic: ANTHROPIC_API_KEY not set: %w", ErrNoProvider)
	}
	return &AnthropicProvider{apiKey: key, apiURL: anthropicAPIURL, client: &http.Client{Timeout: defaultTimeout}}, nil
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

func (a *AnthropicProvider) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	req := anthropicRequest{
		Model:       s.Model,
		MaxTokens:   s.MaxTokens,
		System:      s.System,
		Temperature: &s.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}
	if req.Model == "" {
		req.Model = anthropicDefaultModel
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 4096
	}

	headers := map[string]string{
		"X-API-Key":         a.apiKey,
		"Anthropic-Version": anthropicAPIVersion,
	}
	var resp anthropicResponse
	if err := postJSON(ctx, a.client, "anthropic", a.apiURL, headers, req, &resp); err != nil {
		return "", err
	}

	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("anthropic: response truncated at %d tokens", req.MaxTokens)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content in response")
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
