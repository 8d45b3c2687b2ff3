package queue

import (
	"context"
	"testing"
	"time"

	"pantry-recipes/internal/infrastructure/config"
	"pantry-recipes/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	m := NewManager(config.AIConfig{MaxConcurrent: 2, MaxQueueSize: 4})

	r1, err := m.Acquire(context.Background())
	require.NoError(t, err)
	r2, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.GetQueueStatus().InFlight)

	r1()
	r1()
	r2()

	status := m.GetQueueStatus()
	assert.Equal(t, 0, status.InFlight)
	assert.Equal(t, int64(2), status.ProcessedCount)
}

func TestAcquireWaitsForSlot(t *testing.T) {
	m := NewManager(config.AIConfig{MaxConcurrent: 1, MaxQueueSize: 1})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := m.Acquire(context.Background())
		if err == nil {
			r()
			close(acquired)
		}
	}()

	assert.Eventually(t, func() bool { return m.GetQueueStatus().Waiting == 1 }, time.Second, time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired a slot")
	}
}

func TestAcquireRejectsWhenQueueFull(t *testing.T) {
	m := NewManager(config.AIConfig{MaxConcurrent: 1, MaxQueueSize: 1})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _, _ = m.Acquire(ctx) }()
	assert.Eventually(t, func() bool { return m.GetQueueStatus().Waiting == 1 }, time.Second, time.Millisecond)

	_, err = m.Acquire(context.Background())
	assert.ErrorIs(t, err, common.ErrTooManyRequests)
	assert.Equal(t, int64(1), m.GetQueueStatus().RejectedCount)
}

func TestAcquireHonorsContextAndClose(t *testing.T) {
	m := NewManager(config.AIConfig{MaxConcurrent: 1})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	m.Close()
	m.Close()
	_, err = m.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
