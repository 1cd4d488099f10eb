package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The test config carries no Redis address, so these exercise the in-memory
// path a Redis outage falls back to.

func TestStateIsSingleUse(t *testing.T) {
	state := "state-" + t.Name()
	SaveState(state, time.Minute)

	assert.True(t, ConsumeState(state))
	assert.False(t, ConsumeState(state), "second consumption must fail")
}

func TestConsumeUnknownState(t *testing.T) {
	assert.False(t, ConsumeState("never-saved-"+t.Name()))
}

func TestExpiredStateIsRejected(t *testing.T) {
	state := "state-" + t.Name()
	SaveState(state, time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	assert.False(t, ConsumeState(state))
}
