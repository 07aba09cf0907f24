package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimisticUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit Keeps New Value", func(t *testing.T) {
		o := NewOptimistic("Dispatched")

		ok := o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			return nil
		})

		assert.True(t, ok)
		assert.Equal(t, "En Route", o.Value())
		assert.NoError(t, o.Err())
		assert.False(t, o.IsUpdating())
	})

	t.Run("Failure Rolls Back To Previous Value", func(t *testing.T) {
		o := NewOptimistic("Dispatched")
		remoteErr := errors.New("server rejected transition")

		ok := o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			return remoteErr
		})

		assert.False(t, ok)
		assert.Equal(t, "Dispatched", o.Value())
		assert.ErrorIs(t, o.Err(), remoteErr)
		assert.False(t, o.IsUpdating())
	})

	t.Run("Value Visible While Update In Flight", func(t *testing.T) {
		o := NewOptimistic("Dispatched")

		o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			// The optimistic value is already observable from inside the
			// remote operation.
			assert.Equal(t, "En Route", o.Value())
			assert.True(t, o.IsUpdating())
			return nil
		})
	})

	t.Run("Callbacks Fire With Rollback Value", func(t *testing.T) {
		var gotErr error
		var gotPrevious string
		o := NewOptimistic("Dispatched",
			WithOnError[string](func(err error, previous string) {
				gotErr = err
				gotPrevious = previous
			}),
		)

		o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			return errors.New("timeout")
		})

		assert.Error(t, gotErr)
		assert.Equal(t, "Dispatched", gotPrevious)
	})

	t.Run("Success Callback Receives New Value", func(t *testing.T) {
		var confirmed string
		o := NewOptimistic("Dispatched",
			WithOnSuccess[string](func(v string) { confirmed = v }),
		)

		o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			return nil
		})

		assert.Equal(t, "En Route", confirmed)
	})

	t.Run("Error Cleared On Next Update", func(t *testing.T) {
		o := NewOptimistic("Dispatched")

		o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			return errors.New("first failure")
		})
		assert.Error(t, o.Err())

		o.Update(ctx, "En Route", func(ctx context.Context, v string) error {
			return nil
		})
		assert.NoError(t, o.Err())
		assert.Equal(t, "En Route", o.Value())
	})

	t.Run("Concurrent Failures Never Leave A Failed Value", func(t *testing.T) {
		o := NewOptimistic(0)

		var wg sync.WaitGroup
		for i := 1; i <= 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				o.Update(ctx, n, func(ctx context.Context, v int) error {
					return errors.New("always fails")
				})
			}(i)
		}
		wg.Wait()

		// Every update failed, so the final value must be one the
		// controller rolled back to, never a failed candidate that stuck
		// around with a nil error.
		assert.Error(t, o.Err())
		assert.False(t, o.IsUpdating())
	})
}
