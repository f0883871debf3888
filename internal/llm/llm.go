// Package llm defines the provider interface and implementations used to
// draft content fixes with a hosted language model.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Minute

// ErrNoProvider is returned when no model provider can be configured.
var ErrNoProvider = errors.New("no LLM provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")

// Settings configures the LLM request.
type Settings struct {
	Model       string
	System      string
	Temperature float64
	MaxTokens   int
	Seed        *int
}

// Provider generates text from a prompt using an LLM.
type Provider interface {
	Generate(ctx context.Context, prompt string, settings Settings) (string, error)
	Name() string
}

// ExtractJSON strips surrounding whitespace and Markdown code fences from a
// model response so it can be decoded as JSON.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// drop the opening fence and its optional language tag
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
