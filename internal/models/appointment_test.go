package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, false},

		// Cancellation and no-show reachable from any non-terminal state
		{StatusScheduled, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusInProgress, StatusNoShow, true},

		// Terminal states admit nothing
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusNoShow, StatusConfirmed, false},

		// No backwards moves
		{StatusConfirmed, StatusScheduled, false},
		{StatusInProgress, StatusConfirmed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusScheduled.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}
