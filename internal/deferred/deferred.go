// Package deferred provides a one-shot value that resolves in the background
// while a page is already being written.
package deferred

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Value is resolved exactly once. Every waiter observes the same result.
type Value[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newValue[T any]() *Value[T] {
	return &Value[T]{done: make(chan struct{})}
}

// ErrPanic wraps a panic raised by the function passed to Go.
var ErrPanic = errors.New("deferred: panic")

// Go runs fn in its own goroutine and returns a Value resolved with its result.
// fn receives ctx unchanged; cancelling it is up to the caller. A panic in fn
// rejects the value with ErrPanic.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Value[T] {
	v := newValue[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				v.resolve(zero, fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()
		val, err := fn(ctx)
		v.resolve(val, err)
	}()
	return v
}

// Resolved returns a Value that is already available.
func Resolved[T any](val T) *Value[T] {
	v := newValue[T]()
	v.resolve(val, nil)
	return v
}

// Failed returns a Value that is already rejected with err.
func Failed[T any](err error) *Value[T] {
	v := newValue[T]()
	var zero T
	v.resolve(zero, err)
	return v
}

func (v *Value[T]) resolve(val T, err error) {
	v.once.Do(func() {
		v.val = val
		v.err = err
		close(v.done)
	})
}

// Done is closed once the value has resolved.
func (v *Value[T]) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until the value resolves or ctx is done. A cancelled wait does not
// affect the pending computation or other waiters.
func (v *Value[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-v.done:
		return v.val, v.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
