package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	vgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// VertexProvider implements Provider using Gemini models served from
// Vertex AI.
type VertexProvider struct {
	client *vgenai.Client
	model  string
}

// NewVertexProvider creates a Vertex AI provider. Authentication uses
// application default credentials.
func NewVertexProvider(ctx context.Context, cfg VertexConfig) (*VertexProvider, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("vertex project is required")
	}
	location := cfg.Location
	if location == "" {
		location = "us-central1"
	}

	client, err := vgenai.NewClient(ctx, cfg.Project, location)
	if err != nil {
		return nil, fmt.Errorf("create Vertex AI client: %w", err)
	}

	return &VertexProvider{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *VertexProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, &ErrRequestRejected{Err: errors.New("no messages")}
	}

	model := p.client.GenerativeModel(p.model)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}
	if req.System != "" {
		model.SystemInstruction = &vgenai.Content{
			Parts: []vgenai.Part{vgenai.Text(req.System)},
		}
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
	}

	// All but the last message become chat history.
	chat := model.StartChat()
	last := req.Messages[len(req.Messages)-1]
	for _, m := range req.Messages[:len(req.Messages)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		chat.History = append(chat.History, &vgenai.Content{
			Role:  role,
			Parts: []vgenai.Part{vgenai.Text(m.Content)},
		})
	}

	result, err := chat.SendMessage(ctx, vgenai.Text(last.Content))
	if err != nil {
		return nil, mapVertexError(err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no candidates in Vertex AI response")}
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if text, ok := part.(vgenai.Text); ok {
			b.WriteString(string(text))
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("vertex: empty reply")}
	}
	content := json.RawMessage(text)

	stop := "end"
	if result.Candidates[0].FinishReason == vgenai.FinishReasonMaxTokens {
		stop = "max_tokens"
	}

	if req.Schema != nil {
		if stop == "max_tokens" {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		doc, err := validateResponse(req.Schema, content)
		if err != nil {
			return nil, err
		}
		content = doc
	}

	resp := &Response{
		Content:    content,
		Model:      p.model,
		StopReason: stop,
	}
	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (p *VertexProvider) ModelID() string {
	return p.model
}

// Close releases the underlying gRPC connection.
func (p *VertexProvider) Close() error {
	return p.client.Close()
}

func mapVertexError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return classifyUntyped(err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.Aborted:
		return &ErrProviderUnavailable{Err: err}
	case codes.ResourceExhausted:
		return &ErrRequestRejected{StatusCode: 429, Err: err}
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return &ErrRequestRejected{StatusCode: 400, Err: err}
	case codes.Unauthenticated:
		return &ErrRequestRejected{StatusCode: 401, Err: err}
	case codes.PermissionDenied:
		return &ErrRequestRejected{StatusCode: 403, Err: err}
	case codes.NotFound:
		return &ErrRequestRejected{StatusCode: 404, Err: err}
	}
	return classifyUntyped(err)
}
