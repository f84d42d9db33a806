package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry, pacing and logging middleware.
// eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "vertex":
		base, err = NewVertexProvider(ctx, cfg.Vertex)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → pacing → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	paced := WithPacing(logged, cfg.RequestsPerSecond)
	return WithTimeout(WithRetry(paced, cfg.Retry), cfg.Timeout), nil
}

// NewProviderFromEnv resolves configuration from INTERVIEW_* variables,
// falling back to the first well-known API key found, and builds the
// decorated provider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, log zerolog.Logger) (Provider, error) {
	cfg := ConfigFromEnv()
	if cfg.Validate() != nil {
		if discovered, ok := DiscoverConfig(); ok {
			discovered.RequestsPerSecond = cfg.RequestsPerSecond
			cfg = discovered
		}
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}
