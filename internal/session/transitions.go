package session

import "fmt"

// Event drives a status transition.
type Event string

const (
	EventCandidateInfo  Event = "candidate_info"
	EventStart          Event = "start"
	EventFirstQuestion  Event = "first_question"
	EventAdvancePastEnd Event = "advance_past_end"
	EventComplete       Event = "complete"
	EventRestart        Event = "restart"
	EventReset          Event = "reset"
)

type transitionKey struct {
	from  Status
	event Event
}

// transitions is the single source of truth for status changes. A pair
// absent from the table is an invalid transition.
var transitions = map[transitionKey]Status{
	{StatusNotStarted, EventCandidateInfo}:  StatusCollectingInfo,
	{StatusNotStarted, EventFirstQuestion}:  StatusInProgress,
	{StatusNotStarted, EventComplete}:       StatusCompleted,
	{StatusNotStarted, EventRestart}:        StatusInProgress,
	{StatusNotStarted, EventReset}:          StatusNotStarted,
	{StatusNotStarted, EventAdvancePastEnd}: StatusCompleted,

	{StatusCollectingInfo, EventCandidateInfo}:  StatusCollectingInfo,
	{StatusCollectingInfo, EventStart}:          StatusInProgress,
	{StatusCollectingInfo, EventFirstQuestion}:  StatusCollectingInfo,
	{StatusCollectingInfo, EventComplete}:       StatusCompleted,
	{StatusCollectingInfo, EventRestart}:        StatusInProgress,
	{StatusCollectingInfo, EventReset}:          StatusNotStarted,
	{StatusCollectingInfo, EventAdvancePastEnd}: StatusCompleted,

	{StatusInProgress, EventCandidateInfo}:  StatusInProgress,
	{StatusInProgress, EventStart}:          StatusInProgress,
	{StatusInProgress, EventFirstQuestion}:  StatusInProgress,
	{StatusInProgress, EventAdvancePastEnd}: StatusCompleted,
	{StatusInProgress, EventComplete}:       StatusCompleted,
	{StatusInProgress, EventRestart}:        StatusInProgress,
	{StatusInProgress, EventReset}:          StatusNotStarted,

	{StatusCompleted, EventCandidateInfo}:  StatusCompleted,
	{StatusCompleted, EventFirstQuestion}:  StatusCompleted,
	{StatusCompleted, EventAdvancePastEnd}: StatusCompleted,
	{StatusCompleted, EventComplete}:       StatusCompleted,
	{StatusCompleted, EventRestart}:        StatusInProgress,
	{StatusCompleted, EventReset}:          StatusNotStarted,
}

// Next returns the status reached from `from` on event e.
func Next(from Status, e Event) (Status, error) {
	to, ok := transitions[transitionKey{from, e}]
	if !ok {
		return from, &TransitionError{From: from, Event: e}
	}
	return to, nil
}

// TransitionError reports an event that is not allowed in a status.
type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("session: %s not allowed while %s", e.Event, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
