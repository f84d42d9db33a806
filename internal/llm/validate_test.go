package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func feedbackSchema() *Schema {
	return &Schema{
		Name:        "test-feedback",
		Description: "Per-answer feedback",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"index":    map[string]any{"type": "integer", "minimum": 0},
							"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
							"feedback": map[string]any{"type": "string"},
							"verdict":  map[string]any{"type": "string", "enum": []any{"strong", "ok", "weak"}},
						},
						"required": []any{"index", "score", "feedback"},
					},
				},
			},
			"required": []any{"items"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"items":[{"index":0,"score":7,"feedback":"Good","verdict":"ok"}]}`, false},
		{"optional omitted", `{"items":[{"index":1,"score":3,"feedback":"Thin"}]}`, false},
		{"empty list", `{"items":[]}`, false},
		{"missing required", `{"items":[{"index":0,"feedback":"x"}]}`, true},
		{"wrong type", `{"items":[{"index":0,"score":"seven","feedback":"x"}]}`, true},
		{"out of range", `{"items":[{"index":0,"score":11,"feedback":"x"}]}`, true},
		{"bad enum", `{"items":[{"index":0,"score":5,"feedback":"x","verdict":"meh"}]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
		{"fenced", "```json\n{\"items\":[]}\n```", false},
		{"bare fence", "```\n{\"items\":[]}\n```", false},
		{"unterminated fence", "```json", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateResponse(feedbackSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	doc, err := validateResponse(nil, json.RawMessage("```plain text```"))
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
	if string(doc) != "```plain text```" {
		t.Fatalf("nil schema must leave content untouched, got %q", doc)
	}
}

func TestStripFence(t *testing.T) {
	tests := map[string]string{
		"{\"a\":1}":               `{"a":1}`,
		"  {\"a\":1}\n":           `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
	}
	for in, want := range tests {
		if got := string(stripFence([]byte(in))); got != want {
			t.Errorf("stripFence(%q) = %q, want %q", in, got, want)
		}
	}
}
