// Package workerpool bounds how much blocking work runs at once.
package workerpool

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"
)

// Pool runs blocking functions with at most Size of them in flight.
// A caller waiting for a slot gives up when its context is done.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a Pool with the given number of slots (minimum 1).
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return p.size
}

// Do runs fn once a slot is available and returns its error.
// A panic in fn is recovered and returned as an error.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire worker: %w", err)
	}
	defer p.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered panic in worker", "panic", r)
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()

	return fn(ctx)
}

// Submit runs fn on the pool and returns its result.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	return result, err
}
