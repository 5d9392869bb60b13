package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalLimiterSpacesCalls(t *testing.T) {
	t.Parallel()
	clock := time.Unix(0, 0)
	var slept []time.Duration
	lim := NewIntervalLimiterWithClock(2*time.Second,
		func() time.Time { return clock },
		func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			clock = clock.Add(d)
			return nil
		})

	require.NoError(t, lim.Wait(context.Background()))
	assert.Empty(t, slept, "first call should not sleep")

	// Immediate second call must wait out the full interval.
	require.NoError(t, lim.Wait(context.Background()))
	require.Len(t, slept, 1)
	assert.Equal(t, 2*time.Second, slept[0])

	// After the interval has naturally elapsed no sleep is needed.
	clock = clock.Add(3 * time.Second)
	require.NoError(t, lim.Wait(context.Background()))
	assert.Len(t, slept, 1)
}

func TestIntervalLimiterPartialWait(t *testing.T) {
	t.Parallel()
	clock := time.Unix(0, 0)
	var slept []time.Duration
	lim := NewIntervalLimiterWithClock(2*time.Second,
		func() time.Time { return clock },
		func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			clock = clock.Add(d)
			return nil
		})

	require.NoError(t, lim.Wait(context.Background()))
	clock = clock.Add(500 * time.Millisecond)
	require.NoError(t, lim.Wait(context.Background()))
	require.Len(t, slept, 1)
	assert.Equal(t, 1500*time.Millisecond, slept[0])
}

func TestIntervalLimiterZeroInterval(t *testing.T) {
	t.Parallel()
	lim := NewIntervalLimiter(0)
	require.NoError(t, lim.Wait(context.Background()))
	require.NoError(t, lim.Wait(context.Background()))
}

func TestIntervalLimiterCancelledContext(t *testing.T) {
	t.Parallel()
	lim := NewIntervalLimiter(time.Hour)
	require.NoError(t, lim.Wait(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, lim.Wait(ctx))
}
