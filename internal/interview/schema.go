package interview

import "github.com/hanuman1123/interviewAIAgent/internal/llm"

// FeedbackSchema is the structured per-answer review.
var FeedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Score and one or two sentences of feedback for each interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based question index",
						},
						"score": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     10,
							"description": "Answer quality from 0 to 10",
						},
						"feedback": map[string]any{
							"type":        "string",
							"description": "One or two sentences for the interviewer",
						},
					},
					"required":             []any{"index", "score", "feedback"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"items"},
		"additionalProperties": false,
	},
}

type feedbackOutput struct {
	Items []feedbackItem `json:"items"`
}

type feedbackItem struct {
	Index    int    `json:"index"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}
