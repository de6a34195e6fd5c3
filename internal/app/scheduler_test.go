package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/camwall/internal/app"
)

func TestRetrySchedulerDelay(t *testing.T) {
	s := app.NewRetryScheduler(0, 0) // defaults: 2s base, 30s cap

	expected := []time.Duration{
		2 * time.Second,  // k=0
		4 * time.Second,  // k=1
		8 * time.Second,  // k=2
		16 * time.Second, // k=3
		30 * time.Second, // k=4 (32s capped)
		30 * time.Second, // k=5
		30 * time.Second, // k=6
		30 * time.Second, // k=7
		30 * time.Second, // k=8
		30 * time.Second, // k=9
		30 * time.Second, // k=10
	}
	for k, want := range expected {
		assert.Equal(t, want, s.Delay(k), "attempt %d", k)
	}
}

func TestRetryTokenFires(t *testing.T) {
	s := app.NewRetryScheduler(5*time.Millisecond, 40*time.Millisecond)
	tok := s.Schedule("cam-1", 0)
	select {
	case <-tok.C():
	case <-time.After(time.Second):
		t.Fatal("token never fired")
	}
}

func TestRetryTokenCancel(t *testing.T) {
	s := app.NewRetryScheduler(30*time.Millisecond, time.Second)
	tok := s.Schedule("cam-1", 0)
	tok.Cancel()
	tok.Cancel() // idempotent

	select {
	case <-tok.C():
		t.Fatal("cancelled token fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRetryTokenCancelAfterFire(t *testing.T) {
	s := app.NewRetryScheduler(time.Millisecond, time.Second)
	tok := s.Schedule("cam-1", 0)
	select {
	case <-tok.C():
	case <-time.After(time.Second):
		t.Fatal("token never fired")
	}
	require.NotPanics(t, tok.Cancel)
}
