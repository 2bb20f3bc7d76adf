package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageIDsStrictlyIncreaseWithinMillisecond(t *testing.T) {
	g := NewMessageIDs(nil)
	now := time.Date(2026, 4, 24, 16, 55, 0, 0, time.UTC)

	prev := g.Next(now)
	for i := 0; i < 1000; i++ {
		next := g.Next(now)
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestMessageIDsSurviveClockRewind(t *testing.T) {
	g := NewMessageIDs(nil)
	now := time.Date(2026, 4, 24, 16, 55, 0, 0, time.UTC)

	a := g.Next(now)
	b := g.Next(now.Add(-time.Hour))
	require.Greater(t, b, a)
}

func TestSessionIDs(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	require.NotEqual(t, a, b)
	require.True(t, ValidSessionID(a))
	require.False(t, ValidSessionID("not-a-session"))
}
