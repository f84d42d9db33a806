package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithPacing_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	if p := WithPacing(mock, 0); p != Provider(mock) {
		t.Fatal("expected pacing to be a no-op for rps <= 0")
	}
}

func TestWithPacing_SpacesRequests(t *testing.T) {
	mock := NewMockProvider(
		Reply("a"),
		Reply("b"),
		Reply("c"),
	)
	p := WithPacing(mock, 20) // one token every 50ms

	start := time.Now()
	for range 3 {
		if _, err := p.Generate(context.Background(), Request{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Fatalf("expected requests to be paced, took %s", elapsed)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestWithPacing_HonoursContext(t *testing.T) {
	mock := NewMockProvider(Reply("a"))
	p := WithPacing(mock, 0.001)
	// Drain the single burst token.
	_, _ = p.Generate(context.Background(), Request{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected wait to fail when the context expires first")
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout_BoundsCall(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not applied, took %s", elapsed)
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("expected 'blocking', got %q", p.ModelID())
	}
}

func TestWithTimeout_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Fatal("expected timeout to be a no-op for d <= 0")
	}
}
