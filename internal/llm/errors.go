package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrRequestRejected indicates the provider refused the request outright:
// malformed input, bad credentials, or an exhausted quota. Retrying the
// same request cannot succeed.
type ErrRequestRejected struct {
	StatusCode int
	Err        error
}

func (e *ErrRequestRejected) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request rejected: %v", e.Err)
	}
	return fmt.Sprintf("request rejected (status %d): %v", e.StatusCode, e.Err)
}

func (e *ErrRequestRejected) Unwrap() error { return e.Err }

// Quota reports whether the rejection was a rate or quota limit (429).
func (e *ErrRequestRejected) Quota() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, overloaded or
// unreachable. It is the only failure the retry decorator waits out.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// Outcome is the tagged result of a single provider call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeTransient
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransient:
		return "transient"
	default:
		return "terminal"
	}
}

// Classify maps a provider error onto an Outcome. Only
// ErrProviderUnavailable is transient; everything else fails fast.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return OutcomeTransient
	}
	return OutcomeTerminal
}

// classifyStatus maps an HTTP status returned by a provider SDK onto the
// package's error taxonomy.
func classifyStatus(status int, err error) error {
	switch {
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	case status >= 400:
		return &ErrRequestRejected{StatusCode: status, Err: err}
	}
	return classifyUntyped(err)
}

// classifyUntyped handles errors that carry no HTTP status, such as a
// dropped connection. They are transient; context errors pass through.
func classifyUntyped(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ErrProviderUnavailable{Err: err}
}
