package client

import (
	"context"
	"sync"
)

// Optimistic applies a tentative value before its server mutation is
// confirmed and rolls back when the mutation fails. The externally
// observed value is never left at a value whose mutation failed.
type Optimistic[T any] struct {
	mu         sync.Mutex
	value      T
	isUpdating bool
	err        error

	onSuccess func(T)
	onError   func(error, T)
}

type OptimisticOption[T any] func(*Optimistic[T])

// WithOnSuccess registers a callback invoked after a confirmed update.
func WithOnSuccess[T any](fn func(T)) OptimisticOption[T] {
	return func(o *Optimistic[T]) { o.onSuccess = fn }
}

// WithOnError registers a callback invoked with the failure and the
// value rolled back to.
func WithOnError[T any](fn func(error, T)) OptimisticOption[T] {
	return func(o *Optimistic[T]) { o.onError = fn }
}

func NewOptimistic[T any](initial T, opts ...OptimisticOption[T]) *Optimistic[T] {
	o := &Optimistic[T]{value: initial}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Update sets the value immediately, runs the remote mutation, and on
// failure reverts to the previous value and records the error. Reports
// whether the mutation was confirmed. Overlapping calls are not
// serialized; each call reverts to the value it observed.
func (o *Optimistic[T]) Update(ctx context.Context, newValue T, perform func(context.Context, T) error) bool {
	o.mu.Lock()
	previous := o.value
	o.value = newValue
	o.isUpdating = true
	o.err = nil
	o.mu.Unlock()

	err := perform(ctx, newValue)

	o.mu.Lock()
	o.isUpdating = false
	if err != nil {
		o.value = previous
		o.err = err
	}
	o.mu.Unlock()

	if err != nil {
		if o.onError != nil {
			o.onError(err, previous)
		}
		return false
	}

	if o.onSuccess != nil {
		o.onSuccess(newValue)
	}
	return true
}

func (o *Optimistic[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *Optimistic[T]) IsUpdating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isUpdating
}

func (o *Optimistic[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
