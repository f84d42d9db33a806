package sequencer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

// Slot is one position in the interview: a difficulty, a subject and
// the time the candidate gets to answer.
type Slot struct {
	Difficulty session.Difficulty
	Subject    string
	TimeBudget time.Duration
}

// Plan is the ordered list of slots plus the offline question bank.
type Plan struct {
	Slots    []Slot
	Fallback []string
}

// Difficulties in the order they are served.
var Difficulties = []session.Difficulty{session.Easy, session.Medium, session.Hard}

// DefaultBudgets is the answer time per difficulty.
var DefaultBudgets = map[session.Difficulty]time.Duration{
	session.Easy:   20 * time.Second,
	session.Medium: 60 * time.Second,
	session.Hard:   120 * time.Second,
}

// DefaultSubjects are the two subjects alternated within each difficulty.
var DefaultSubjects = []string{"React", "Node"}

// DefaultFallback is served when the assistant is unavailable.
var DefaultFallback = []string{
	"Explain the virtual DOM and how React uses it to optimize rendering.",
	"How do you manage state in a React application? Describe at least two approaches.",
	"Describe the event loop in Node.js and how it handles asynchronous I/O.",
	"What is the purpose of middleware in Express.js? Give an example use case.",
	"Explain CORS and how you'd handle it in a Node/Express API.",
	"How do hooks like useEffect and useMemo help with performance in React?",
}

// PlanLen is the number of questions in every interview.
const PlanLen = 6

// DefaultPlan returns Easy/Medium/Hard, each asked once per subject.
func DefaultPlan() Plan {
	return buildPlan(DefaultSubjects, DefaultBudgets, DefaultFallback)
}

func buildPlan(subjects []string, budgets map[session.Difficulty]time.Duration, fallback []string) Plan {
	p := Plan{Fallback: append([]string(nil), fallback...)}
	for _, d := range Difficulties {
		for _, s := range subjects {
			p.Slots = append(p.Slots, Slot{Difficulty: d, Subject: s, TimeBudget: budgets[d]})
		}
	}
	return p
}

// ErrInvalidPlan is wrapped by every plan validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// Validate checks slot count, budgets and the fallback bank.
func (p Plan) Validate() error {
	if len(p.Slots) != PlanLen {
		return fmt.Errorf("%w: want %d slots, got %d", ErrInvalidPlan, PlanLen, len(p.Slots))
	}
	for i, s := range p.Slots {
		if s.TimeBudget <= 0 {
			return fmt.Errorf("%w: slot %d has no time budget", ErrInvalidPlan, i)
		}
		if s.Subject == "" {
			return fmt.Errorf("%w: slot %d has no subject", ErrInvalidPlan, i)
		}
	}
	if len(p.Fallback) == 0 {
		return fmt.Errorf("%w: fallback bank is empty", ErrInvalidPlan)
	}
	return nil
}

// planFile is the on-disk YAML shape. Omitted sections keep defaults.
type planFile struct {
	Subjects []string       `yaml:"subjects"`
	Budgets  map[string]int `yaml:"budgets"`
	Fallback []string       `yaml:"fallback"`
}

// ParsePlan decodes a YAML plan, filling omitted sections from the
// defaults.
func ParsePlan(data []byte) (Plan, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}

	subjects := DefaultSubjects
	if len(f.Subjects) > 0 {
		subjects = f.Subjects
	}

	budgets := make(map[session.Difficulty]time.Duration, len(DefaultBudgets))
	for d, b := range DefaultBudgets {
		budgets[d] = b
	}
	for name, secs := range f.Budgets {
		d := session.Difficulty(name)
		if _, ok := DefaultBudgets[d]; !ok {
			return Plan{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidPlan, name)
		}
		budgets[d] = time.Duration(secs) * time.Second
	}

	fallback := DefaultFallback
	if f.Fallback != nil {
		fallback = f.Fallback
	}

	p := buildPlan(subjects, budgets, fallback)
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// LoadPlan reads a YAML plan file. An empty path returns DefaultPlan.
func LoadPlan(path string) (Plan, error) {
	if path == "" {
		return DefaultPlan(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}
