package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "vertex", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Vertex     VertexConfig
	Retry      RetryConfig

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	// Timeout bounds a single logical request including retries.
	// Zero means no bound beyond the caller's context.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Used by tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Used by tests.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// VertexConfig holds Vertex AI configuration. Credentials come from the
// environment (application default credentials).
type VertexConfig struct {
	Project  string
	Location string // Default: "us-central1"
	Model    string // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Jitter is the upper bound of a uniform random delay added to
	// every wait.
	Jitter time.Duration
}

// DefaultRetryConfig is four attempts with waits of 2s, 4s and 8s, each
// padded by up to 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		InitialWait: 2 * time.Second,
		MaxWait:     8 * time.Second,
		Multiplier:  2.0,
		Jitter:      200 * time.Millisecond,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Vertex: VertexConfig{
			Location: "us-central1",
			Model:    "gemini-flash",
		},
		Retry: DefaultRetryConfig(),
	}
}

// ConfigFromEnv builds a Config from INTERVIEW_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setString(&cfg.Provider, "INTERVIEW_LLM_PROVIDER")

	setString(&cfg.Anthropic.APIKey, "INTERVIEW_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "INTERVIEW_ANTHROPIC_MODEL")

	setString(&cfg.OpenAI.APIKey, "INTERVIEW_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "INTERVIEW_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "INTERVIEW_OPENAI_BASE_URL")

	setString(&cfg.Gemini.APIKey, "INTERVIEW_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "INTERVIEW_GEMINI_MODEL")

	setString(&cfg.OpenRouter.APIKey, "INTERVIEW_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "INTERVIEW_OPENROUTER_MODEL")

	setString(&cfg.Vertex.Project, "INTERVIEW_VERTEX_PROJECT")
	setString(&cfg.Vertex.Location, "INTERVIEW_VERTEX_LOCATION")
	setString(&cfg.Vertex.Model, "INTERVIEW_VERTEX_MODEL")

	if v := os.Getenv("INTERVIEW_LLM_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RequestsPerSecond = f
		}
	}

	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("INTERVIEW_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("INTERVIEW_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("INTERVIEW_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("INTERVIEW_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "vertex":
		if c.Vertex.Project == "" {
			return fmt.Errorf("INTERVIEW_VERTEX_PROJECT is required for the vertex provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
