package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Validate(t *testing.T) {
	t.Run("Should accept the default policy", func(t *testing.T) {
		require.NoError(t, DefaultRetryPolicy().Validate())
	})

	t.Run("Should reject zero attempts", func(t *testing.T) {
		p := DefaultRetryPolicy()
		p.MaxAttempts = 0
		require.Error(t, p.Validate())
	})

	t.Run("Should reject negative base delay", func(t *testing.T) {
		p := DefaultRetryPolicy()
		p.BaseDelay = -time.Second
		require.Error(t, p.Validate())
	})

	t.Run("Should reject multipliers below one", func(t *testing.T) {
		p := DefaultRetryPolicy()
		p.Multiplier = 0.5
		require.Error(t, p.Validate())
	})
}

func TestRetryPolicy_DelayFor(t *testing.T) {
	t.Run("Should grow exponentially up to the cap", func(t *testing.T) {
		p := RetryPolicy{
			MaxAttempts: 10,
			BaseDelay:   100 * time.Millisecond,
			Multiplier:  2,
			MaxDelay:    time.Second,
		}

		assert.Equal(t, 100*time.Millisecond, p.DelayFor(1))
		assert.Equal(t, 200*time.Millisecond, p.DelayFor(2))
		assert.Equal(t, 400*time.Millisecond, p.DelayFor(3))
		assert.Equal(t, 800*time.Millisecond, p.DelayFor(4))
		assert.Equal(t, time.Second, p.DelayFor(5))
		assert.Equal(t, time.Second, p.DelayFor(20))
	})

	t.Run("Should support non-integer multipliers", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second, Multiplier: 1.5}

		assert.Equal(t, time.Second, p.DelayFor(1))
		assert.Equal(t, 1500*time.Millisecond, p.DelayFor(2))
		assert.Equal(t, 2250*time.Millisecond, p.DelayFor(3))
	})

	t.Run("Should clamp attempt numbers below one", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}
		assert.Equal(t, p.DelayFor(1), p.DelayFor(0))
	})
}

func TestRetryPolicy_Backoff(t *testing.T) {
	t.Run("Should produce the computed delay without jitter", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Multiplier: 2}
		attempt := 1
		var hint time.Duration
		b := p.backoff(&attempt, &hint)

		delay, stop := b.Next()
		require.False(t, stop)
		assert.Equal(t, 100*time.Millisecond, delay)

		attempt = 2
		delay, stop = b.Next()
		require.False(t, stop)
		assert.Equal(t, 200*time.Millisecond, delay)
	})

	t.Run("Should consume the retry-after hint once", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Multiplier: 2}
		attempt := 1
		hint := 5 * time.Second
		b := p.backoff(&attempt, &hint)

		delay, stop := b.Next()
		require.False(t, stop)
		assert.Equal(t, 5*time.Second, delay)
		assert.Equal(t, time.Duration(0), hint)

		delay, stop = b.Next()
		require.False(t, stop)
		assert.Equal(t, 100*time.Millisecond, delay)
	})

	t.Run("Should keep jittered delays within half to one-and-a-half times", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 100, BaseDelay: 100 * time.Millisecond, Multiplier: 1, Jitter: true}
		attempt := 1
		var hint time.Duration
		b := p.backoff(&attempt, &hint)

		for i := 0; i < 50; i++ {
			delay, stop := b.Next()
			require.False(t, stop)
			assert.GreaterOrEqual(t, delay, 50*time.Millisecond)
			assert.Less(t, delay, 150*time.Millisecond)
		}
	})

	t.Run("Should stop after maxAttempts-1 retries", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2}
		attempt := 1
		var hint time.Duration
		b := p.backoff(&attempt, &hint)

		_, stop := b.Next()
		require.False(t, stop)
		_, stop = b.Next()
		require.False(t, stop)
		_, stop = b.Next()
		assert.True(t, stop)
	})
}
