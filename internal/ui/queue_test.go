package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainQueueRunsInOrderOnOneGoroutine(t *testing.T) {
	q := NewMainQueue()
	defer q.Close()

	var (
		wg  sync.WaitGroup
		got []int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		i := i
		require.True(t, q.Post(func() {
			defer wg.Done()
			got = append(got, i)
		}))
	}
	wg.Wait()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestMainQueuePostFromQueueDoesNotBlock(t *testing.T) {
	q := NewMainQueue()
	defer q.Close()

	done := make(chan struct{})
	q.Post(func() {
		for i := 0; i < 1000; i++ {
			q.Post(func() {})
		}
		q.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("nested posts never ran")
	}
}

func TestMainQueueClose(t *testing.T) {
	q := NewMainQueue()

	ran := false
	q.Post(func() { ran = true })
	q.Close()

	assert.True(t, ran, "queued work runs before Close returns")
	assert.False(t, q.Post(func() {}))
	assert.ErrorIs(t, q.Sync(context.Background(), func() {}), ErrQueueClosed)

	// Closing twice is harmless.
	q.Close()
}

func TestMainQueueSyncHonoursContext(t *testing.T) {
	q := NewMainQueue()
	defer q.Close()

	block := make(chan struct{})
	q.Post(func() { <-block })
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Sync(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
