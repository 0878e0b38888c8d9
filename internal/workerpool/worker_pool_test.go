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

package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWorkerPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("With happy path", func(t *testing.T) {
		pool := New(WithNumShards(4), WithIdleTimeout(time.Minute))
		pool.Start()
		require.Zero(t, pool.SpawnedWorkers())

		const workCount = 500
		var executed atomic.Int64
		for range workCount {
			require.NoError(t, pool.SubmitWork(func() {
				time.Sleep(time.Millisecond)
				executed.Add(1)
			}))
		}
		require.NotZero(t, pool.SpawnedWorkers())

		require.Eventually(t, func() bool {
			return executed.Load() == workCount
		}, 5*time.Second, 10*time.Millisecond)

		pool.Stop()
		assert.Zero(t, pool.SpawnedWorkers())

		// already stopped
		pool.Stop()
		assert.ErrorIs(t, pool.SubmitWork(func() {}), ErrNotRunning)
	})

	t.Run("When not started", func(t *testing.T) {
		pool := New()
		assert.ErrorIs(t, pool.SubmitWork(func() {}), ErrNotRunning)
		pool.Stop()
		assert.False(t, pool.stopped.Load())
	})

	t.Run("With idle workers reaped", func(t *testing.T) {
		pool := New(WithNumShards(1), WithIdleTimeout(20*time.Millisecond))
		pool.Start()

		done := make(chan struct{})
		require.NoError(t, pool.SubmitWork(func() { close(done) }))
		<-done

		require.Eventually(t, func() bool {
			return pool.SpawnedWorkers() == 0
		}, 2*time.Second, 10*time.Millisecond)
		pool.Stop()
	})

	t.Run("With worker reuse", func(t *testing.T) {
		pool := New(WithNumShards(1), WithIdleTimeout(time.Minute))
		pool.Start()

		for range 20 {
			done := make(chan struct{})
			require.NoError(t, pool.SubmitWork(func() { close(done) }))
			<-done
			require.Eventually(t, func() bool {
				pool.shards[0].mu.Lock()
				defer pool.shards[0].mu.Unlock()
				return len(pool.shards[0].idle) == 1
			}, time.Second, time.Millisecond)
		}
		assert.Equal(t, 1, pool.SpawnedWorkers())
		pool.Stop()
	})

	t.Run("With option bounds", func(t *testing.T) {
		pool := New(WithNumShards(1000), WithIdleTimeout(-1))
		assert.Equal(t, maxShards, pool.numShards)
		assert.Equal(t, time.Second, pool.idleTimeout)
		assert.Equal(t, 1, New(WithNumShards(0)).numShards)
	})
}
