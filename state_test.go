package selfupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "update-available", UpdateAvailable.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.Equal(t, "unknown", State(-1).String())
}

func TestTerminalStates(t *testing.T) {
	for _, state := range []State{UpToDate, Completed, Failed, Cancelled} {
		assert.True(t, state.IsTerminal(), state.String())
		assert.False(t, state.IsBusy(), state.String())
	}
	for _, state := range []State{Checking, Downloading, Installing} {
		assert.False(t, state.IsTerminal(), state.String())
		assert.True(t, state.IsBusy(), state.String())
	}
	assert.False(t, Idle.IsTerminal())
	assert.False(t, UpdateAvailable.IsTerminal())
}

func TestTransitions(t *testing.T) {
	allowed := []struct{ from, to State }{
		{Idle, Checking},
		{Checking, UpToDate},
		{Checking, UpdateAvailable},
		{Checking, Failed},
		{UpdateAvailable, Downloading},
		{Downloading, Installing},
		{Downloading, Cancelled},
		{Downloading, Failed},
		{Installing, Completed},
		{Installing, Cancelled},
		{Installing, Failed},
		{Completed, Checking},
		{Failed, Checking},
	}
	for _, transition := range allowed {
		assert.True(t, canTransition(transition.from, transition.to), "%s -> %s", transition.from, transition.to)
	}

	forbidden := []struct{ from, to State }{
		{Idle, Downloading},
		{UpToDate, Downloading},
		{Checking, Downloading},
		{Downloading, Completed},
		{Installing, Downloading},
		{Completed, Downloading},
		{Cancelled, Installing},
	}
	for _, transition := range forbidden {
		assert.False(t, canTransition(transition.from, transition.to), "%s -> %s", transition.from, transition.to)
	}
}
