package llm

import "context"

// Purposes label each call in the event log and the per-purpose stats.
const (
	PurposeQuestion = "question"
	PurposeEvaluate = "evaluate"
	PurposeFeedback = "feedback"
	PurposeSummary  = "summary"

	purposeUnlabeled = "unknown"
)

// Purposes lists the labels the interview flow attaches, in flow order.
var Purposes = []string{PurposeQuestion, PurposeEvaluate, PurposeFeedback, PurposeSummary}

type purposeKey struct{}

// WithPurpose tags ctx so the logging provider can attribute the call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return purposeUnlabeled
}
