package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(1, 2)

	// Burst of 2 is allowed immediately.
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiter(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	// Very slow limiter with no burst headroom.
	limiter := NewRateLimiter(0.001, 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.Error(t, err)
}

func TestRateLimiter_SetRate(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.SetRate(1000)

	assert.True(t, limiter.Allow())

	// At 1000 rps the bucket refills within a few milliseconds.
	time.Sleep(10 * time.Millisecond)
	assert.True(t, limiter.Allow())
}
