package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapVertexError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		transient  bool
		wantStatus int
	}{
		{"unavailable", status.Error(codes.Unavailable, "backend down"), true, 0},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), true, 0},
		{"internal", status.Error(codes.Internal, "oops"), true, 0},
		{"quota", status.Error(codes.ResourceExhausted, "quota"), false, 429},
		{"bad request", status.Error(codes.InvalidArgument, "bad"), false, 400},
		{"auth", status.Error(codes.Unauthenticated, "no creds"), false, 401},
		{"denied", status.Error(codes.PermissionDenied, "no"), false, 403},
		{"model missing", status.Error(codes.NotFound, "no model"), false, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapVertexError(tt.err)
			if tt.transient {
				if Classify(got) != OutcomeTransient {
					t.Fatalf("expected transient, got %T (%v)", got, got)
				}
				return
			}
			var rej *ErrRequestRejected
			if !errors.As(got, &rej) {
				t.Fatalf("expected ErrRequestRejected, got %T (%v)", got, got)
			}
			if rej.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rej.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestMapVertexError_ContextPassesThrough(t *testing.T) {
	if got := mapVertexError(context.Canceled); !errors.Is(got, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", got)
	}
}

func TestNewVertexProvider_RequiresProject(t *testing.T) {
	if _, err := NewVertexProvider(context.Background(), VertexConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty project")
	}
}
