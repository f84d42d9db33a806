// Package assistant is the single entry point to the remote AI. Every
// failure, whatever its transport shape, surfaces as ErrUnavailable so
// callers can fall back deterministically.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/llm"
	"github.com/hanuman1123/interviewAIAgent/internal/metrics"
)

// ErrUnavailable is returned when the remote AI exhausted its retries,
// rejected the request, or produced no usable text.
var ErrUnavailable = errors.New("assistant unavailable")

// Asker is the narrow contract the sequencer and controller depend on.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Client keeps one running conversation with the provider.
type Client struct {
	provider  llm.Provider
	system    string
	maxTokens int
	stateless bool
	log       zerolog.Logger
	metrics   metrics.Recorder

	mu      sync.Mutex
	history []llm.Message
}

// Option configures a Client.
type Option func(*Client)

// WithSystem sets the system prompt sent with every request.
func WithSystem(s string) Option { return func(c *Client) { c.system = s } }

// WithMaxTokens caps response length.
func WithMaxTokens(n int) Option { return func(c *Client) { c.maxTokens = n } }

// Stateless sends only the current prompt and keeps no history.
func Stateless() Option { return func(c *Client) { c.stateless = true } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option { return func(c *Client) { c.metrics = m } }

// DefaultSystemPrompt frames the model as the interviewer.
const DefaultSystemPrompt = "You are a technical interviewer for a full-stack React/Node.js developer role. Be concise."

// New returns a Client over p. p is expected to already carry retry
// middleware; Client performs no retries of its own.
func New(p llm.Provider, opts ...Option) *Client {
	c := &Client{
		provider:  p,
		system:    DefaultSystemPrompt,
		maxTokens: 1024,
		log:       zerolog.Nop(),
		metrics:   metrics.Noop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask sends prompt as the next user turn and returns the trimmed reply.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	msgs := make([]llm.Message, 0, len(c.history)+1)
	if !c.stateless {
		msgs = append(msgs, c.history...)
	}
	msgs = append(msgs, llm.User(prompt))
	c.mu.Unlock()

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:    c.system,
		Messages:  msgs,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", c.unavailable(ctx, err)
	}

	text := resp.Text()
	if text == "" {
		return "", c.unavailable(ctx, errors.New("empty reply"))
	}

	c.metrics.IncAssistantCalls(llm.PurposeFrom(ctx), true)
	if !c.stateless {
		c.mu.Lock()
		c.history = append(c.history,
			llm.User(prompt),
			llm.Assistant(text),
		)
		c.mu.Unlock()
	}
	return text, nil
}

// AskJSON sends a one-off structured request outside the conversation
// and decodes the schema-validated reply into out.
func (c *Client) AskJSON(ctx context.Context, prompt string, schema *llm.Schema, out any) error {
	resp, err := c.provider.Generate(ctx, llm.Request{
		System:    c.system,
		Messages:  []llm.Message{llm.User(prompt)},
		Schema:    schema,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return c.unavailable(ctx, err)
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return c.unavailable(ctx, fmt.Errorf("decode %s: %w", schema.Name, err))
	}
	c.metrics.IncAssistantCalls(llm.PurposeFrom(ctx), true)
	return nil
}

// Reset starts a fresh conversation.
func (c *Client) Reset() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
}

// Turns returns the number of completed exchanges in the conversation.
func (c *Client) Turns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history) / 2
}

func (c *Client) unavailable(ctx context.Context, cause error) error {
	purpose := llm.PurposeFrom(ctx)
	c.metrics.IncAssistantCalls(purpose, false)
	c.log.Warn().Err(cause).
		Str("purpose", purpose).
		Str("outcome", llm.Classify(cause).String()).
		Msg("assistant unavailable")
	return ErrUnavailable
}
