package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_DoesNotOverlap(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	s := New("fetch", func(ctx context.Context) {
		runs.Add(1)
		<-release
	}, time.Hour)

	require.True(t, s.Trigger(t.Context()))
	assert.Eventually(t, s.Running, time.Second, 5*time.Millisecond)
	assert.False(t, s.Trigger(t.Context()))

	close(release)
	assert.Eventually(t, func() bool { return !s.Running() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestStart_RunsOnTickAndStops(t *testing.T) {
	var runs atomic.Int32
	s := New("fetch", func(ctx context.Context) { runs.Add(1) }, 10*time.Millisecond, WithRunOnStart())

	ctx, cancel := context.WithCancel(t.Context())
	stopped := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(stopped)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestTrigger_RecoversPanic(t *testing.T) {
	s := New("fetch", func(ctx context.Context) { panic("boom") }, time.Hour)

	require.True(t, s.Trigger(t.Context()))
	assert.Eventually(t, func() bool { return !s.Running() }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Trigger(t.Context()))
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New("fetch", func(context.Context) {}, 0)
	assert.Equal(t, DefaultInterval, s.interval)
}
