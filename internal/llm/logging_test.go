package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/store"
)

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`What is a closure?`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 5},
	})
	p := WithLogging(mock, "gemini", repo, zerolog.Nop())

	ctx := WithPurpose(context.Background(), PurposeQuestion)
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "ask"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != "gemini" || e.Purpose != PurposeQuestion || !e.Success {
		t.Errorf("unexpected event %+v", e)
	}
	if e.InputTokens != 12 || e.ResponseBody != "What is a closure?" {
		t.Errorf("unexpected usage/body %+v", e)
	}
	if e.RequestBody != "[user]\nask\n\n" {
		t.Errorf("unexpected request body %q", e.RequestBody)
	}
}

func TestLogging_RecordsFailureAndIgnoresRepoErrors(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}})
	p := WithLogging(mock, "gemini", repo, zerolog.Nop())

	_, err := p.Generate(context.Background(), Request{})
	if Classify(err) != OutcomeTransient {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("unexpected events %+v", repo.events)
	}
	if repo.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", repo.events[0].Purpose)
	}
}

func TestLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(Reply("ok"))
	p := WithLogging(mock, "mock", nil, zerolog.Nop())
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
