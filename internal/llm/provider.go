package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one completion per call. Implementations wrap a
// vendor SDK; decorators (logging, pacing, retry, timeout) wrap other
// providers.
type Provider interface {
	// Generate runs a single completion. When req.Schema is set the
	// returned Content is a JSON document that passed schema validation;
	// otherwise it is the model's reply text.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is one completion call. The interview sends either a single
// user turn or the running conversation for question generation.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for structured output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant returns an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Schema describes the JSON document a structured request must return.
type Schema struct {
	// Name is kebab-case and doubles as the tool or schema name sent to
	// the vendor, e.g. "answer-feedback".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed call.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is one of "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as trimmed text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
