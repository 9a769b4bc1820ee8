package explorer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterWithinBudget(t *testing.T) {
	l := NewRateLimiter(3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	l.mu.Lock()
	assert.Equal(t, 0, l.remaining)
	l.mu.Unlock()
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	l := NewRateLimiter(1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiterWindowReset(t *testing.T) {
	l := NewRateLimiter(2)
	ctx := context.Background()
	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))

	// Age the window past a minute; the next Wait must refill and proceed.
	l.mu.Lock()
	l.windowStart = time.Now().Add(-61 * time.Second)
	l.mu.Unlock()

	require.NoError(t, l.Wait(ctx))
	l.mu.Lock()
	assert.Equal(t, 1, l.remaining)
	l.mu.Unlock()
}

func TestRateLimiterDisabled(t *testing.T) {
	l := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
}
