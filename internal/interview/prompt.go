package interview

import (
	"fmt"
	"strings"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

// Transcript renders every question with its answer as
// "Q1: ...\nA1: ..." blocks separated by a blank line. Unanswered
// questions read as the no-answer sentinel.
func Transcript(s session.Session) string {
	blocks := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		answer := s.AnswerAt(i)
		if answer == "" {
			answer = session.NoAnswer
		}
		blocks[i] = fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, q.Text, i+1, answer)
	}
	return strings.Join(blocks, "\n\n")
}

// ScorePrompt asks for a single score out of 100.
func ScorePrompt(transcript string) string {
	return "Evaluate this interview transcript and give a score out of 100. Only return the numeric score.\n\n" + transcript
}

func feedbackPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Review each answer in this interview transcript.\n\n")
	b.WriteString(transcript)
	b.WriteString(`

Instructions:
For every question return its zero-based index, a score from 0 to 10 and one or two sentences of feedback addressed to the interviewer. Judge technical accuracy and depth. An answer of "` + session.NoAnswer + `" scores 0.`)
	return b.String()
}

func summaryPrompt(name string, score int, transcript string) string {
	return fmt.Sprintf("Write a one-paragraph summary of %s's interview for the hiring team. The overall score was %d/100. Mention strengths and gaps. Return only the paragraph.\n\n%s",
		name, score, transcript)
}

// UnavailableSummary is archived when the assistant could not evaluate
// the interview.
const UnavailableSummary = "AI evaluation unavailable"

// FallbackScore is recorded when the assistant could not score the
// interview.
const FallbackScore = 50
