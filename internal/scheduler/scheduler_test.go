package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Spec(t *testing.T) {
	noop := func(context.Context) error { return nil }
	assert.Equal(t, "@every 30m0s", New(noop, 30*time.Minute).Spec())
	assert.Equal(t, "@every 1s", New(noop, 10*time.Millisecond).Spec())
}

func TestTrigger_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32

	s := New(func(context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return nil
	}, time.Hour)

	done := make(chan bool)
	go func() { done <- s.Trigger(context.Background()) }()
	<-started

	assert.True(t, s.Running())
	assert.False(t, s.Trigger(context.Background()))

	close(release)
	assert.True(t, <-done)
	assert.False(t, s.Running())
	assert.Equal(t, int32(1), runs.Load())
}

func TestTrigger_RecordsLastRun(t *testing.T) {
	boom := errors.New("boom")
	s := New(func(context.Context) error { return boom }, time.Hour)

	last, err := s.LastRun()
	assert.True(t, last.IsZero())
	assert.NoError(t, err)

	require.True(t, s.Trigger(context.Background()))
	last, err = s.LastRun()
	assert.False(t, last.IsZero())
	assert.ErrorIs(t, err, boom)
}

func TestStart_RunsOnStart(t *testing.T) {
	var runs atomic.Int32
	s := New(func(context.Context) error {
		runs.Add(1)
		return nil
	}, time.Hour)

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestStart_WithoutRunOnStart(t *testing.T) {
	var runs atomic.Int32
	s := New(func(context.Context) error {
		runs.Add(1)
		return nil
	}, time.Hour, RunOnStart(false))

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	assert.Equal(t, int32(0), runs.Load())
}
