// Package session holds the interview session data model and the state
// machine that mutates it.
package session

import (
	"time"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusNotStarted     Status = "not_started"
	StatusCollectingInfo Status = "collecting_info"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusCollectingInfo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Difficulty grades a question and selects its time budget.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// NoAnswer is recorded when a candidate submits nothing or the timer
// expires on an empty draft.
const NoAnswer = "(No answer provided)"

// CandidateInfo identifies the interviewee. Phone is stored digits-only.
type CandidateInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Complete reports whether all three fields are filled.
func (c CandidateInfo) Complete() bool {
	return c.Name != "" && c.Email != "" && c.Phone != ""
}

// Merge returns c with every non-empty field of p applied over it.
func (c CandidateInfo) Merge(p CandidateInfo) CandidateInfo {
	if p.Name != "" {
		c.Name = p.Name
	}
	if p.Email != "" {
		c.Email = p.Email
	}
	if p.Phone != "" {
		c.Phone = p.Phone
	}
	return c
}

// Question is one generated interview question. ID never changes once
// assigned; Answer, Score and Feedback only fill in.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	Answer     *string    `json:"answer,omitempty"`
	Score      *int       `json:"score,omitempty"`
	Feedback   *string    `json:"feedback,omitempty"`
}

// Session is one candidate's interview attempt.
type Session struct {
	CandidateInfo CandidateInfo `json:"candidateInfo"`
	Questions     []Question    `json:"questions"`

	// Answers is index-aligned with Questions. Unanswered slots are nil;
	// any index that has ever been written has no holes before it.
	Answers []*string `json:"answers"`

	CurrentQuestionIndex int    `json:"currentQuestionIndex"`
	FinalScore           *int   `json:"finalScore"`
	Status               Status `json:"status"`
}

// New returns an empty not-started session.
func New() Session {
	return Session{
		Questions: []Question{},
		Answers:   []*string{},
		Status:    StatusNotStarted,
	}
}

// Clone returns a deep copy sharing no slices or pointers with s.
func (s Session) Clone() Session {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Answer = cloneString(q.Answer)
		q.Score = cloneInt(q.Score)
		q.Feedback = cloneString(q.Feedback)
		out.Questions[i] = q
	}
	out.Answers = make([]*string, len(s.Answers))
	for i, a := range s.Answers {
		out.Answers[i] = cloneString(a)
	}
	out.FinalScore = cloneInt(s.FinalScore)
	return out
}

// AnswerAt returns the recorded answer text at i, or "" when unanswered.
func (s Session) AnswerAt(i int) string {
	if i < 0 || i >= len(s.Answers) || s.Answers[i] == nil {
		return ""
	}
	return *s.Answers[i]
}

// ArchivedSession is an immutable snapshot of a finished session.
type ArchivedSession struct {
	Session
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Summary string    `json:"summary,omitempty"`
}

// Clone returns a deep copy of a.
func (a ArchivedSession) Clone() ArchivedSession {
	a.Session = a.Session.Clone()
	return a
}

// ScoreOrZero treats a missing final score as zero for ranking.
func (a ArchivedSession) ScoreOrZero() int {
	if a.FinalScore == nil {
		return 0
	}
	return *a.FinalScore
}

// ResumablePointer is the crash-recovery snapshot of an in-flight
// session. At most one exists at a time.
type ResumablePointer struct {
	CandidateInfo        CandidateInfo `json:"candidateInfo"`
	Questions            []Question    `json:"questions"`
	Answers              []*string     `json:"answers"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	Status               Status        `json:"status"`
	Timestamp            time.Time     `json:"timestamp"`
}

// State is everything persisted under the interview state key.
type State struct {
	Interviews        []ArchivedSession `json:"interviews"`
	CurrentInterview  Session           `json:"currentInterview"`
	LastActiveSession *ResumablePointer `json:"lastActiveSession"`
}

// NewState returns the default empty state.
func NewState() State {
	return State{
		Interviews:       []ArchivedSession{},
		CurrentInterview: New(),
	}
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	out := State{
		Interviews:       make([]ArchivedSession, len(st.Interviews)),
		CurrentInterview: st.CurrentInterview.Clone(),
	}
	for i, a := range st.Interviews {
		out.Interviews[i] = a.Clone()
	}
	if st.LastActiveSession != nil {
		p := *st.LastActiveSession
		tmp := Session{Questions: p.Questions, Answers: p.Answers}.Clone()
		p.Questions, p.Answers = tmp.Questions, tmp.Answers
		out.LastActiveSession = &p
	}
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
