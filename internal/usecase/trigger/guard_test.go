package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessGuardReserveOnce(t *testing.T) {
	g := NewProcessGuard(3)

	require.True(t, g.Reserve("m-1"))
	assert.False(t, g.Reserve("m-1"), "second reservation must be rejected")
	assert.True(t, g.Processed("m-1"))

	require.True(t, g.Reserve("m-2"), "distinct ids reserve independently")
}

func TestProcessGuardReleasePermitsRetry(t *testing.T) {
	g := NewProcessGuard(3)

	require.True(t, g.Reserve("m-1"))
	require.True(t, g.Release("m-1"))

	assert.Equal(t, 1, g.Attempts("m-1"))
	assert.False(t, g.Processed("m-1"))
	assert.True(t, g.Reserve("m-1"), "released meeting can be reserved again")
}

func TestProcessGuardRetryCeiling(t *testing.T) {
	g := NewProcessGuard(3)

	// Initial attempt plus three retries.
	for i := 0; i < 4; i++ {
		require.True(t, g.Reserve("m-1"), "attempt %d should reserve", i)
		retryable := g.Release("m-1")
		if i < 3 {
			require.True(t, retryable, "release %d should permit retry", i)
		} else {
			require.False(t, retryable, "release %d must hit the ceiling", i)
		}
	}

	assert.False(t, g.Reserve("m-1"), "exhausted meeting stays reserved forever")
	assert.Equal(t, 3, g.Attempts("m-1"))
}

func TestProcessGuardClear(t *testing.T) {
	g := NewProcessGuard(1)

	require.True(t, g.Reserve("m-1"))
	require.True(t, g.Release("m-1"))
	require.True(t, g.Reserve("m-1"))
	require.False(t, g.Release("m-1"))

	g.Clear()

	assert.True(t, g.Reserve("m-1"), "clear drops reservations and counters")
	assert.Equal(t, 0, g.Attempts("m-2"))
}

func TestProcessGuardDefaultCeiling(t *testing.T) {
	g := NewProcessGuard(0)
	assert.Equal(t, 3, g.maxRetries)
}
