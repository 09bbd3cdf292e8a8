package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	t.Parallel()

	l := New(Config{})
	require.False(t, l.Enabled())
	for range 100 {
		require.True(t, l.Allow("client"))
	}
	require.Zero(t, l.Len())

	var nilLimiter *Limiter
	require.True(t, nilLimiter.Allow("client"))
}

func TestAllowEnforcesBurstPerClient(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 1, Burst: 2})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"), "clients have independent buckets")

	now = now.Add(time.Minute)
	require.True(t, l.Allow("a"), "a token refills after a minute")
	require.False(t, l.Allow("a"))
}

func TestEvictionBoundsTrackedClients(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 60, Burst: 1, MaxClients: 2})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(idleAfter + time.Second)
	l.Allow("b")
	l.Allow("c")
	require.Equal(t, 2, l.Len(), "idle client a was evicted")

	l.Allow("d")
	require.LessOrEqual(t, l.Len(), 2)
}
