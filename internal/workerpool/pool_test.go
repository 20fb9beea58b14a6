package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClampsSize(t *testing.T) {
	assert.Equal(t, 1, New(0).Size())
	assert.Equal(t, 1, New(-3).Size())
	assert.Equal(t, 8, New(8).Size())
}

func TestPool_DoReturnsError(t *testing.T) {
	p := New(1)
	want := errors.New("resolve failed")

	err := p.Do(context.Background(), func(context.Context) error { return want })

	assert.ErrorIs(t, err, want)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const size = 3
	p := New(size)

	var inFlight, peak atomic.Int32
	var wg sync.WaitGroup
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func(context.Context) error {
				n := inFlight.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(size))
	assert.Positive(t, peak.Load())
}

func TestPool_DoHonorsContextWhileWaiting(t *testing.T) {
	p := New(1)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = p.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := p.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestPool_DoRecoversPanic(t *testing.T) {
	p := New(1)

	err := p.Do(context.Background(), func(context.Context) error {
		panic("ffmpeg exploded")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg exploded")

	// The slot must have been released.
	err = p.Do(context.Background(), func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestSubmit_ReturnsValue(t *testing.T) {
	p := New(2)

	got, err := Submit(context.Background(), p, func(context.Context) (string, error) {
		return "Never Gonna Give You Up", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", got)
}
