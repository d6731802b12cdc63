package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireUnderLimit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(3, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(ctx))
	}
	assert.Equal(t, 3, l.InFlight())
}

func TestOverLimitCallIsDelayedNotRejected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(2, clock)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	clock.Advance(10 * time.Second)
	require.NoError(t, l.Acquire(ctx))

	// Third call must block until the oldest timestamp ages out.
	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx) }()

	// The goroutine is parked on the fake clock before any time passes.
	clock.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("over-limit call completed without waiting")
	default:
	}

	// Not enough: first slot frees at t=60s, we are at t=10s.
	clock.Advance(40 * time.Second)
	select {
	case <-done:
		t.Fatal("over-limit call completed before the window slid")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(10 * time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("over-limit call was never admitted")
	}

	// Never more than the limit inside one rolling window.
	assert.LessOrEqual(t, l.InFlight(), 2)
}

func TestWindowSlides(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(5, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Acquire(ctx))
	}
	assert.Equal(t, 5, l.InFlight())

	clock.Advance(Window + time.Second)
	assert.Equal(t, 0, l.InFlight())

	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 1, l.InFlight())
}

func TestAcquireHonorsContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewWithClock(1, clock)

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx) }()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled Acquire never returned")
	}
}
