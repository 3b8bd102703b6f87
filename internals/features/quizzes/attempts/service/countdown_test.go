package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownFiresOnceAtZero(t *testing.T) {
	var calls int32
	done := make(chan uuid.UUID, 2)
	cd := NewCountdown(5*time.Millisecond, func(id uuid.UUID) {
		atomic.AddInt32(&calls, 1)
		done <- id
	})
	defer cd.Shutdown()

	id := uuid.New()
	cd.Arm(id, 20*time.Millisecond)

	rem, ok := cd.Remaining(id)
	require.True(t, ok)
	assert.LessOrEqual(t, rem, 20*time.Millisecond)

	select {
	case got := <-done:
		assert.Equal(t, id, got)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown tidak pernah habis")
	}

	time.Sleep(30 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	_, ok = cd.Remaining(id)
	assert.False(t, ok)
	assert.False(t, cd.Cancel(id), "sudah dilepas setelah habis")
}

func TestCountdownCancelPreventsExpire(t *testing.T) {
	var calls int32
	cd := NewCountdown(5*time.Millisecond, func(uuid.UUID) { atomic.AddInt32(&calls, 1) })
	defer cd.Shutdown()

	id := uuid.New()
	cd.Arm(id, 50*time.Millisecond)
	assert.True(t, cd.Cancel(id))
	assert.Equal(t, 0, cd.Active())

	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestCountdownPastDeadlineFiresImmediately(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	cd := NewCountdown(time.Hour, func(uuid.UUID) { wg.Done() })
	defer cd.Shutdown()

	cd.Arm(uuid.New(), -time.Second)
	waitOrFail(t, &wg)
}

func TestCountdownRearmReplaces(t *testing.T) {
	var calls int32
	cd := NewCountdown(5*time.Millisecond, func(uuid.UUID) { atomic.AddInt32(&calls, 1) })

	id := uuid.New()
	cd.Arm(id, time.Hour)
	cd.Arm(id, 10*time.Millisecond)
	assert.Equal(t, 1, cd.Active())

	time.Sleep(100 * time.Millisecond)
	cd.Shutdown()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCountdownShutdownStopsAll(t *testing.T) {
	var calls int32
	cd := NewCountdown(5*time.Millisecond, func(uuid.UUID) { atomic.AddInt32(&calls, 1) })
	for i := 0; i < 5; i++ {
		cd.Arm(uuid.New(), time.Hour)
	}
	assert.Equal(t, 5, cd.Active())
	cd.Shutdown()
	assert.Equal(t, 0, cd.Active())

	cd.Arm(uuid.New(), -time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls), "arm setelah shutdown diabaikan")
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	ch := make(chan struct{})
	go func() { wg.Wait(); close(ch) }()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout menunggu callback")
	}
}
