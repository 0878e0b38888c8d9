/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Courier Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package future

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tidewave/courier/errors"
)

type notFoundError struct{ name string }

func (e *notFoundError) Error() string { return e.name + " not found" }

type storageError struct{ err error }

func (e *storageError) Error() string { return "storage: " + e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDeferred(t *testing.T) {
	t.Run("With single settlement", func(t *testing.T) {
		deferred := NewDeferred[int]()
		require.NoError(t, deferred.Resolve(1))
		assert.ErrorIs(t, deferred.Resolve(2), errors.ErrAlreadySettled)
		assert.ErrorIs(t, deferred.Reject(stderrors.New("late")), errors.ErrAlreadySettled)

		promise := deferred.Promise()
		assert.True(t, promise.IsSettled())
		assert.Equal(t, 1, promise.Value())
		assert.NoError(t, promise.Err())
	})

	t.Run("With nil rejection", func(t *testing.T) {
		deferred := NewDeferred[string]()
		require.NoError(t, deferred.Reject(nil))
		assert.ErrorIs(t, deferred.Promise().Err(), errors.ErrNilRejection)
	})

	t.Run("With concurrent settlement", func(t *testing.T) {
		deferred := NewDeferred[int]()
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var err error
				if i%2 == 0 {
					err = deferred.Resolve(i)
				} else {
					err = deferred.Reject(fmt.Errorf("attempt %d", i))
				}
				if err == nil {
					succeeded.Inc()
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, succeeded.Load())
	})
}

func TestPromise(t *testing.T) {
	ctx := context.Background()

	t.Run("With handlers queued while pending", func(t *testing.T) {
		deferred := NewDeferred[string]()
		var calls []string
		deferred.Promise().
			Then(func(v string) { calls = append(calls, "then:"+v) }).
			Error(func(error) { calls = append(calls, "error") }).
			Finally(func() { calls = append(calls, "finally") })

		assert.Empty(t, calls)
		require.NoError(t, deferred.Resolve("ok"))
		assert.Equal(t, []string{"then:ok", "finally"}, calls)
	})

	t.Run("With handlers registered after settlement", func(t *testing.T) {
		promise := Resolved(7)
		calls := 0
		promise.Then(func(v int) {
			assert.Equal(t, 7, v)
			calls++
		})
		assert.Equal(t, 1, calls)

		promise.Then(func(int) { calls++ })
		assert.Equal(t, 2, calls)

		rejected := Rejected[int](errBoom)
		var caught error
		rejected.Error(func(err error) { caught = err })
		assert.ErrorIs(t, caught, errBoom)
	})

	t.Run("With Await", func(t *testing.T) {
		deferred := NewDeferred[int]()
		go func() {
			time.Sleep(10 * time.Millisecond)
			_ = deferred.Resolve(42)
		}()

		value, err := deferred.Promise().Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, value)

		_, err = Rejected[int](errBoom).Await(ctx)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("With callbacks run before Await returns", func(t *testing.T) {
		for range 100 {
			deferred := NewDeferred[int]()
			// plain variables: Await must order the callbacks before its return
			var seen, settled int
			deferred.Promise().
				Then(func(v int) { seen = v }).
				Finally(func() { settled++ })

			go func() { _ = deferred.Resolve(5) }()

			value, err := deferred.Promise().Await(ctx)
			require.NoError(t, err)
			assert.Equal(t, 5, value)
			assert.Equal(t, 5, seen)
			assert.Equal(t, 1, settled)
		}
	})

	t.Run("With Await timing out", func(t *testing.T) {
		deferred := NewDeferred[int]()
		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := deferred.Promise().Await(waitCtx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, deferred.IsSettled())
	})

	t.Run("With Delegate", func(t *testing.T) {
		inner := NewDeferred[int]()
		outer := NewDeferred[int]()
		inner.Promise().
			Error(func(error) {}).
			Delegate(outer)

		require.NoError(t, inner.Reject(errBoom))
		assert.ErrorIs(t, outer.Promise().Err(), errBoom)

		resolved := NewDeferred[int]()
		Resolved(3).Delegate(resolved)
		assert.Equal(t, 3, resolved.Promise().Value())
	})

	t.Run("With panicking handler", func(t *testing.T) {
		deferred := NewDeferred[int]()
		finished := false
		deferred.Promise().
			Then(func(int) { panic("handler failure") }).
			Finally(func() { finished = true })

		require.NoError(t, deferred.Resolve(1))
		assert.True(t, finished)
	})
}

var errBoom = stderrors.New("boom")

func TestErrorHandlers(t *testing.T) {
	t.Run("With most specific handler only", func(t *testing.T) {
		deferred := NewDeferred[int]()
		var fired []string
		promise := deferred.Promise()
		promise.Error(func(error) { fired = append(fired, "any") })
		OnError(promise, func(*storageError) { fired = append(fired, "storage") })
		OnError(promise, func(*notFoundError) { fired = append(fired, "notFound") })

		require.NoError(t, deferred.Reject(&storageError{err: &notFoundError{name: "file"}}))
		assert.Equal(t, []string{"storage"}, fired)
	})

	t.Run("With wrapped error", func(t *testing.T) {
		deferred := NewDeferred[int]()
		var found *notFoundError
		caughtAll := false
		promise := deferred.Promise()
		OnError(promise, func(err *notFoundError) { found = err })
		promise.Error(func(error) { caughtAll = true })

		require.NoError(t, deferred.Reject(fmt.Errorf("lookup: %w", &notFoundError{name: "file"})))
		require.NotNil(t, found)
		assert.Equal(t, "file", found.name)
		assert.False(t, caughtAll)
	})

	t.Run("With catch-all when nothing else matches", func(t *testing.T) {
		deferred := NewDeferred[int]()
		var fired []string
		promise := deferred.Promise()
		OnError(promise, func(*notFoundError) { fired = append(fired, "notFound") })
		promise.Error(func(error) { fired = append(fired, "first") })
		promise.Error(func(error) { fired = append(fired, "second") })

		require.NoError(t, deferred.Reject(errBoom))
		assert.Equal(t, []string{"first", "second"}, fired)
	})

	t.Run("With joined errors", func(t *testing.T) {
		deferred := NewDeferred[int]()
		var found *notFoundError
		promise := deferred.Promise()
		OnError(promise, func(err *notFoundError) { found = err })

		require.NoError(t, deferred.Reject(stderrors.Join(errBoom, &notFoundError{name: "joined"})))
		require.NotNil(t, found)
		assert.Equal(t, "joined", found.name)
	})

	t.Run("With late handlers", func(t *testing.T) {
		promise := Rejected[int](&storageError{err: errBoom})
		var fired []string
		OnError(promise, func(*storageError) { fired = append(fired, "storage") })
		promise.Error(func(error) { fired = append(fired, "any") })
		OnError(promise, func(*notFoundError) { fired = append(fired, "notFound") })
		OnError(promise, func(*storageError) { fired = append(fired, "storage again") })

		assert.Equal(t, []string{"storage", "storage again"}, fired)
	})

	t.Run("With resolution", func(t *testing.T) {
		fired := false
		OnError(Resolved(1), func(*notFoundError) { fired = true })
		Resolved(1).Error(func(error) { fired = true })
		assert.False(t, fired)
	})
}

func TestOf(t *testing.T) {
	ctx := context.Background()

	t.Run("With inline executor", func(t *testing.T) {
		promise := Of(InlineExecutor, func(d *Deferred[string]) {
			_ = d.Resolve("inline")
		})
		assert.True(t, promise.IsSettled())
		assert.Equal(t, "inline", promise.Value())
	})

	t.Run("With asynchronous executor", func(t *testing.T) {
		var wg sync.WaitGroup
		executor := ExecutorFunc(func(task func()) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				task()
			}()
			return nil
		})

		promise := Of(executor, func(d *Deferred[int]) {
			time.Sleep(10 * time.Millisecond)
			_ = d.Resolve(5)
		})

		value, err := promise.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, value)
		wg.Wait()
	})

	t.Run("With panicking function", func(t *testing.T) {
		promise := Of(nil, func(*Deferred[int]) {
			panic("executor failure")
		})

		var panicErr *errors.PanicError
		require.ErrorAs(t, promise.Err(), &panicErr)
		assert.Contains(t, panicErr.Error(), "executor failure")
	})

	t.Run("With refusing executor", func(t *testing.T) {
		executor := ExecutorFunc(func(func()) error {
			return errors.ErrDispatcherStopped
		})

		promise := Of(executor, func(d *Deferred[int]) {
			_ = d.Resolve(1)
		})
		assert.ErrorIs(t, promise.Err(), errors.ErrDispatcherStopped)
	})
}

func TestMap(t *testing.T) {
	doubled := Map(Resolved(21), func(v int) (string, error) {
		return fmt.Sprint(v * 2), nil
	})
	assert.Equal(t, "42", doubled.Value())

	failed := Map(Resolved(1), func(int) (string, error) {
		return "", errBoom
	})
	assert.ErrorIs(t, failed.Err(), errBoom)

	propagated := Map(Rejected[int](errBoom), func(int) (string, error) {
		t.Fatal("must not be called")
		return "", nil
	})
	assert.ErrorIs(t, propagated.Err(), errBoom)

	panicked := Map(Resolved(1), func(int) (string, error) {
		panic("mapping failure")
	})
	var panicErr *errors.PanicError
	assert.ErrorAs(t, panicked.Err(), &panicErr)
}
