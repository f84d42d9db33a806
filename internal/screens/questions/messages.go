package questions

import (
	"time"

	"github.com/hanuman1123/interviewAIAgent/internal/interview"
)

// timerTickMsg is sent every second while a question is open. index ties
// the tick to the turn that scheduled it.
type timerTickMsg struct {
	index int
	at    time.Time
}

// stepMsg carries the outcome of a submit.
type stepMsg struct {
	step interview.Step
	err  error
	auto bool
}
