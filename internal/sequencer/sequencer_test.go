package sequencer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanuman1123/interviewAIAgent/internal/assistant"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

type scriptedAsker struct {
	replies []error
	prompts []string
}

func (a *scriptedAsker) Ask(_ context.Context, prompt string) (string, error) {
	a.prompts = append(a.prompts, prompt)
	var err error
	if len(a.replies) > 0 {
		err, a.replies = a.replies[0], a.replies[1:]
	}
	if err != nil {
		return "", err
	}
	return "generated: " + prompt, nil
}

func TestSlot_DefaultPlan(t *testing.T) {
	s := New(DefaultPlan(), &scriptedAsker{})
	require.Equal(t, 6, s.Len())

	want := []Slot{
		{session.Easy, "React", 20 * time.Second},
		{session.Easy, "Node", 20 * time.Second},
		{session.Medium, "React", 60 * time.Second},
		{session.Medium, "Node", 60 * time.Second},
		{session.Hard, "React", 120 * time.Second},
		{session.Hard, "Node", 120 * time.Second},
	}
	for i, w := range want {
		got, ok := s.Slot(i)
		require.True(t, ok)
		assert.Equal(t, w, got)
	}

	_, ok := s.Slot(6)
	assert.False(t, ok)
	_, ok = s.Slot(-1)
	assert.False(t, ok)
}

func TestPrompt(t *testing.T) {
	got := Prompt(Slot{Difficulty: session.Medium, Subject: "Node"})
	assert.Equal(t, "Ask one Medium interview question about Node for a full-stack React/Node.js developer. Return only the question text.", got)
}

func TestNextQuestionText_Success(t *testing.T) {
	a := &scriptedAsker{}
	s := New(DefaultPlan(), a)

	text, fallback, err := s.NextQuestionText(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Contains(t, text, "Hard interview question about React")
	assert.False(t, s.Degraded())
}

func TestNextQuestionText_FallbackWrapsInOrder(t *testing.T) {
	down := make([]error, 8)
	for i := range down {
		down[i] = assistant.ErrUnavailable
	}
	s := New(DefaultPlan(), &scriptedAsker{replies: down})
	ctx := context.Background()

	var got []string
	for i := range 6 {
		text, fallback, err := s.NextQuestionText(ctx, i)
		require.NoError(t, err)
		assert.True(t, fallback)
		got = append(got, text)
	}
	assert.Equal(t, DefaultFallback, got)
	assert.True(t, s.Degraded())

	// Seventh fallback wraps around to the first question.
	text, _, err := s.NextQuestionText(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultFallback[0], text)
}

func TestNextQuestionText_DegradedClearsOnSuccess(t *testing.T) {
	s := New(DefaultPlan(), &scriptedAsker{replies: []error{assistant.ErrUnavailable, nil, assistant.ErrUnavailable}})
	ctx := context.Background()

	_, fallback, _ := s.NextQuestionText(ctx, 0)
	assert.True(t, fallback)
	assert.True(t, s.Degraded())

	_, fallback, _ = s.NextQuestionText(ctx, 1)
	assert.False(t, fallback)
	assert.False(t, s.Degraded())

	// The bank cursor is independent of the plan index and not rewound.
	text, fallback, _ := s.NextQuestionText(ctx, 2)
	assert.True(t, fallback)
	assert.Equal(t, DefaultFallback[1], text)
}

func TestNextQuestionText_AnyErrorFallsBack(t *testing.T) {
	s := New(DefaultPlan(), &scriptedAsker{replies: []error{errors.New("boom")}})
	text, fallback, err := s.NextQuestionText(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, DefaultFallback[0], text)
}

func TestNextQuestionText_OutOfRange(t *testing.T) {
	a := &scriptedAsker{}
	s := New(DefaultPlan(), a)
	_, _, err := s.NextQuestionText(context.Background(), 6)
	assert.Error(t, err)
	assert.Empty(t, a.prompts, "no call past the end of the plan")
}
