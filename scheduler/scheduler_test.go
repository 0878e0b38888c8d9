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

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/log"
)

func newStarted(t *testing.T) *Scheduler {
	t.Helper()
	ctx := context.Background()
	s, err := New(log.DiscardLogger, WithStopTimeout(time.Second))
	require.NoError(t, err)
	s.Start(ctx)
	require.True(t, s.IsStarted())
	t.Cleanup(func() { s.Stop(ctx) })
	return s
}

func TestScheduleOnce(t *testing.T) {
	t.Run("With the task firing after the delay", func(t *testing.T) {
		s := newStarted(t)
		start := time.Now()
		fired := make(chan time.Time, 1)

		c, err := s.ScheduleOnce(50*time.Millisecond, func(context.Context) {
			fired <- time.Now()
		})
		require.NoError(t, err)

		select {
		case at := <-fired:
			assert.GreaterOrEqual(t, at.Sub(start), 50*time.Millisecond)
		case <-time.After(2 * time.Second):
			t.Fatal("task did not fire")
		}

		assert.True(t, c.Fired())
		assert.False(t, c.Cancel())
		assert.False(t, c.Cancelled())
	})

	t.Run("With the task cancelled before firing", func(t *testing.T) {
		s := newStarted(t)
		var ran atomic.Bool

		c, err := s.ScheduleOnce(100*time.Millisecond, func(context.Context) { ran.Store(true) })
		require.NoError(t, err)
		require.True(t, c.Cancel())
		require.False(t, c.Cancel())
		assert.True(t, c.Cancelled())

		time.Sleep(250 * time.Millisecond)
		assert.False(t, ran.Load())
	})

	t.Run("With fire and cancel racing", func(t *testing.T) {
		s := newStarted(t)
		for range 20 {
			var ran atomic.Int32
			c, err := s.ScheduleOnce(time.Millisecond, func(context.Context) { ran.Inc() })
			require.NoError(t, err)

			var wg sync.WaitGroup
			var cancelled atomic.Bool
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(time.Millisecond)
				cancelled.Store(c.Cancel())
			}()
			wg.Wait()

			require.Eventually(t, func() bool { return c.Fired() || c.Cancelled() }, time.Second, time.Millisecond)
			time.Sleep(5 * time.Millisecond)
			if cancelled.Load() {
				assert.Zero(t, ran.Load())
			} else {
				assert.EqualValues(t, 1, ran.Load())
			}
		}
	})

	t.Run("When not started", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		_, err = s.ScheduleOnce(time.Second, func(context.Context) {})
		assert.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
		s.Stop(context.Background())
	})

	t.Run("With an invalid delay", func(t *testing.T) {
		s := newStarted(t)
		_, err := s.ScheduleOnce(0, func(context.Context) {})
		assert.ErrorIs(t, err, errors.ErrInvalidTimeout)
	})
}
