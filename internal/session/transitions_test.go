package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from    Status
		event   Event
		want    Status
		wantErr bool
	}{
		{StatusNotStarted, EventCandidateInfo, StatusCollectingInfo, false},
		{StatusCollectingInfo, EventStart, StatusInProgress, false},
		{StatusNotStarted, EventStart, StatusNotStarted, true},
		{StatusCompleted, EventStart, StatusCompleted, true},
		{StatusNotStarted, EventFirstQuestion, StatusInProgress, false},
		{StatusCollectingInfo, EventFirstQuestion, StatusCollectingInfo, false},
		{StatusInProgress, EventAdvancePastEnd, StatusCompleted, false},
		{StatusInProgress, EventCandidateInfo, StatusInProgress, false},
		{StatusCompleted, EventCandidateInfo, StatusCompleted, false},
		{StatusCompleted, EventRestart, StatusInProgress, false},
		{StatusInProgress, EventReset, StatusNotStarted, false},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.event)
		assert.Equal(t, tt.want, got, "%s + %s", tt.from, tt.event)
		assert.Equal(t, tt.wantErr, err != nil, "%s + %s", tt.from, tt.event)
		if err != nil {
			assert.True(t, errors.Is(err, ErrInvalidTransition))
		}
	}
}

func TestNext_EveryStatusCanCompleteAndReset(t *testing.T) {
	for _, s := range []Status{StatusNotStarted, StatusCollectingInfo, StatusInProgress, StatusCompleted} {
		to, err := Next(s, EventComplete)
		assert.NoError(t, err)
		assert.Equal(t, StatusCompleted, to)

		to, err = Next(s, EventReset)
		assert.NoError(t, err)
		assert.Equal(t, StatusNotStarted, to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("paused").Valid())
	assert.False(t, Status("").Valid())
}
