package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanuman1123/interviewAIAgent/internal/archive"
	"github.com/hanuman1123/interviewAIAgent/internal/assistant"
	"github.com/hanuman1123/interviewAIAgent/internal/interview"
	"github.com/hanuman1123/interviewAIAgent/internal/llm"
	"github.com/hanuman1123/interviewAIAgent/internal/sequencer"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

// offlineRunner builds a runner whose assistant is always unavailable,
// so questions come from the offline bank and scoring is degraded.
func offlineRunner(t *testing.T, m *session.Machine, input ...string) (*runner, *bytes.Buffer) {
	t.Helper()
	ai := assistant.New(llm.NewMockProvider())
	seq := sequencer.New(sequencer.DefaultPlan(), ai)
	ctrl := interview.New(m, seq, ai, interview.WithTick(time.Hour))

	var out bytes.Buffer
	in := lineChannel(context.Background(), strings.NewReader(strings.Join(input, "\n")+"\n"))
	return newRunner(&out, in, m, ctrl, archive.New(m, nil)), &out
}

func answers(n int) []string {
	var lines []string
	for i := range n {
		lines = append(lines, "answer "+string(rune('a'+i)), "")
	}
	return lines
}

func TestRunner_FullOfflineInterview(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	input := append([]string{"Jane Doe", "not-an-email", "jane@example.com", "555-123-4567"}, answers(6)...)
	r, out := offlineRunner(t, m, input...)

	require.NoError(t, r.run(context.Background(), interviewFlags{}))

	archived := m.Archived()
	require.Len(t, archived, 1)
	got := archived[0]
	assert.Equal(t, "Jane Doe", got.CandidateInfo.Name)
	assert.Equal(t, "5551234567", got.CandidateInfo.Phone)
	require.NotNil(t, got.FinalScore)
	assert.Equal(t, interview.FallbackScore, *got.FinalScore)
	assert.Equal(t, interview.UnavailableSummary, got.Summary)
	require.Len(t, got.Questions, 6)
	assert.Equal(t, "answer a", got.AnswerAt(0))
	assert.Equal(t, "answer f", got.AnswerAt(5))

	text := out.String()
	assert.Contains(t, text, "doesn't look like a valid email")
	assert.Contains(t, text, "offline question bank")
	assert.Contains(t, text, "50/100")
	assert.Equal(t, session.StatusNotStarted, m.Current().Status)
}

func TestRunner_FlagsSkipPrompts(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	r, out := offlineRunner(t, m, answers(6)...)

	err := r.run(context.Background(), interviewFlags{name: "Sam", email: "sam@example.com", phone: "+1 555 987 6543"})
	require.NoError(t, err)

	require.Len(t, m.Archived(), 1)
	assert.Equal(t, "15559876543", m.Archived()[0].CandidateInfo.Phone)
	assert.NotContains(t, out.String(), "Full name:")
}

func TestRunner_SkipAndMultilineAnswers(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	input := []string{"line one", "line two", "", "draft", "/skip"}
	input = append(input, answers(4)...)
	r, _ := offlineRunner(t, m, input...)

	require.NoError(t, r.run(context.Background(), interviewFlags{name: "Sam", email: "sam@example.com", phone: "5559876543"}))

	got := m.Archived()[0]
	assert.Equal(t, "line one\nline two", got.AnswerAt(0))
	assert.Equal(t, session.NoAnswer, got.AnswerAt(1))
}

func TestRunner_PauseAndResume(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	first := append([]string{"Jane Doe", "jane@example.com", "5551234567"}, answers(2)...)
	first = append(first, "/quit")
	r, out := offlineRunner(t, m, first...)

	require.NoError(t, r.run(context.Background(), interviewFlags{}))
	require.NotNil(t, m.Resumable())
	assert.Empty(t, m.Archived())
	assert.Contains(t, out.String(), "Progress saved")

	second := append([]string{"jane doe", " JANE@example.com ", "555-123-4567", "y"}, answers(4)...)
	r, out = offlineRunner(t, m, second...)

	require.NoError(t, r.run(context.Background(), interviewFlags{}))
	assert.Contains(t, out.String(), "Welcome back, jane doe!")
	require.Len(t, m.Archived(), 1)
	got := m.Archived()[0]
	assert.Equal(t, "answer a", got.AnswerAt(0))
	assert.Equal(t, "answer b", got.AnswerAt(1))
	assert.Equal(t, "answer a", got.AnswerAt(2))
	assert.Nil(t, m.Resumable())
}

// crashedMachine holds Jane's interview as a crash leaves it: running,
// two answers in, nothing saved to resume.
func crashedMachine(t *testing.T) *session.Machine {
	t.Helper()
	ctx := context.Background()
	m := session.NewMachine(session.NewState(), nil)
	m.SetCandidateInfo(ctx, session.CandidateInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "5551234567"})
	require.NoError(t, m.StartInterview(ctx))
	for i, text := range []string{"first", "second"} {
		m.RecordQuestion(ctx, session.Question{Text: fmt.Sprintf("Q%d", i)})
		m.RecordAnswer(ctx, text)
		m.Advance(ctx, 6)
	}
	require.Nil(t, m.Resumable())
	return m
}

func TestRunner_CrashedInterviewIsOffered(t *testing.T) {
	m := crashedMachine(t)
	r, out := offlineRunner(t, m, "Jane Doe", "jane@example.com", "555-123-4567", "/quit")

	require.NoError(t, r.run(context.Background(), interviewFlags{}))
	assert.Contains(t, out.String(), "Welcome back, Jane Doe!")
	assert.NotContains(t, out.String(), "Question 1/6")

	cur := m.Current()
	assert.Equal(t, 2, cur.CurrentQuestionIndex)
	assert.Equal(t, "first", cur.AnswerAt(0))
	assert.Equal(t, "second", cur.AnswerAt(1))
	p := m.Resumable()
	require.NotNil(t, p, "pausing at the offer parks the interview")
	assert.Equal(t, 2, p.CurrentQuestionIndex)
}

func TestRunner_CrashedInterviewResumes(t *testing.T) {
	m := crashedMachine(t)
	input := append([]string{"Jane Doe", "jane@example.com", "5551234567", "y"}, answers(4)...)
	r, out := offlineRunner(t, m, input...)

	require.NoError(t, r.run(context.Background(), interviewFlags{}))
	assert.Contains(t, out.String(), "Question 3/6")
	require.Len(t, m.Archived(), 1)
	got := m.Archived()[0]
	assert.Equal(t, "first", got.AnswerAt(0))
	assert.Equal(t, "second", got.AnswerAt(1))
	assert.Equal(t, "answer a", got.AnswerAt(2))
}

func TestRunner_ParksSomeoneElsesRunningInterview(t *testing.T) {
	m := crashedMachine(t)
	input := append([]string{"Sam Lee", "sam@example.com", "5559876543"}, answers(1)...)
	input = append(input, "/quit")
	r, _ := offlineRunner(t, m, input...)

	require.NoError(t, r.run(context.Background(), interviewFlags{}))

	p := m.Resumable()
	require.NotNil(t, p)
	assert.Equal(t, "Jane Doe", p.CandidateInfo.Name, "Sam's pause must not overwrite Jane's saved interview")
	require.GreaterOrEqual(t, len(p.Answers), 2)
	require.NotNil(t, p.Answers[1])
	assert.Equal(t, "second", *p.Answers[1])
	assert.Equal(t, "Sam Lee", m.Current().CandidateInfo.Name)
	assert.Equal(t, session.StatusInProgress, m.Current().Status)
}

func TestRunner_DeclineResumeStartsOver(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	first := append([]string{"Jane Doe", "jane@example.com", "5551234567"}, answers(1)...)
	r, _ := offlineRunner(t, m, first...)
	require.NoError(t, r.run(context.Background(), interviewFlags{}))
	require.NotNil(t, m.Resumable())

	second := append([]string{"Jane Doe", "jane@example.com", "5551234567", "n"}, answers(6)...)
	r, _ = offlineRunner(t, m, second...)
	require.NoError(t, r.run(context.Background(), interviewFlags{}))

	require.Len(t, m.Archived(), 1)
	assert.Equal(t, "answer a", m.Archived()[0].AnswerAt(0))
	assert.Equal(t, "answer f", m.Archived()[0].AnswerAt(5))
}

func TestRunner_RestartFromArchive(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	first := append([]string{"Jane Doe", "jane@example.com", "5551234567"}, answers(6)...)
	r, _ := offlineRunner(t, m, first...)
	require.NoError(t, r.run(context.Background(), interviewFlags{}))
	id := m.Archived()[0].ID

	r, out := offlineRunner(t, m, answers(6)...)
	require.NoError(t, r.run(context.Background(), interviewFlags{restartID: id}))

	assert.Contains(t, out.String(), "Starting over for Jane Doe")
	require.Len(t, m.Archived(), 2)
	assert.Equal(t, "Jane Doe", m.Archived()[1].CandidateInfo.Name)
}

func TestRunner_RestartUnknownID(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	r, _ := offlineRunner(t, m)
	err := r.run(context.Background(), interviewFlags{restartID: "missing"})
	assert.ErrorIs(t, err, archive.ErrNotFound)
}
