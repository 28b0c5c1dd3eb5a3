package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealClockAfterFuncFires(t *testing.T) {
	c := New()
	fired := make(chan struct{})

	c.AfterFunc(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		require.Fail(t, "timer did not fire")
	}
}

func TestRealClockStopPreventsFiring(t *testing.T) {
	c := New()
	fired := make(chan struct{}, 1)

	timer := c.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	select {
	case <-fired:
		assert.Fail(t, "stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}
