package llm

import (
	"context"
	"os"
	"strings"
)

// prefixes maps model-name prefixes to provider constructors. Prefixes
// ending in ":" are stripped from the model name.
var prefixes = []struct {
	prefix string
	build  func() (Provider, error)
}{
	{"anthropic:", func() (Provider, error) { return NewAnthropic() }},
	{"claude", func() (Provider, error) { return NewAnthropic() }},
	{"openai:", func() (Provider, error) { return NewOpenAI() }},
	{"gpt", func() (Provider, error) { return NewOpenAI() }},
}

// ResolveProvider selects an LLM provider based on the model name and the
// available API keys. An empty model picks the first provider with a key.
func ResolveProvider(model string) (Provider, error) {
	if model != "" {
		lower := strings.ToLower(model)
		for _, p := range prefixes {
			if !strings.HasPrefix(lower, p.prefix) {
				continue
			}
			prov, err := p.build()
			if err != nil {
				return nil, err
			}
			name := model
			if strings.HasSuffix(p.prefix, ":") {
				name = model[len(p.prefix):]
			}
			return &modelOverride{Provider: prov, model: name}, nil
		}
	}

	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return NewAnthropic()
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAI()
	}
	return nil, ErrNoProvider
}

// modelOverride wraps a provider to pin the model in settings.
type modelOverride struct {
	Provider
	model string
}

func (m *modelOverride) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	s.Model = m.model
	return m.Provider.Generate(ctx, prompt, s)
}
