package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider. Calls flow
// timeout → retry → logging → provider, so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, rec Recorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := newBaseProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return Wrap(base, cfg, rec), nil
}

// Wrap applies the logging, retry and timeout decorators to base.
func Wrap(base Provider, cfg Config, rec Recorder) Provider {
	p := base
	if rec != nil {
		p = WithLogging(p, cfg.Provider, rec)
	}
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout)
}

func newBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		return NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
