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

package actor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tidewave/courier/errors"
)

func TestPoolDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)
	dispatcher := NewPoolDispatcher(4, time.Second)
	dispatcher.Start()

	var (
		executed atomic.Int32
		wg       sync.WaitGroup
	)
	for range 100 {
		wg.Add(1)
		require.NoError(t, dispatcher.Execute(func() {
			defer wg.Done()
			executed.Inc()
		}))
	}
	wg.Wait()
	assert.EqualValues(t, 100, executed.Load())

	dispatcher.Stop()
	assert.ErrorIs(t, dispatcher.Execute(func() {}), errors.ErrDispatcherStopped)
}

func TestCallingThreadDispatcher(t *testing.T) {
	dispatcher := NewCallingThreadDispatcher()
	dispatcher.Start()

	ran := false
	require.NoError(t, dispatcher.Execute(func() { ran = true }))
	assert.True(t, ran)

	dispatcher.Stop()
	assert.ErrorIs(t, dispatcher.Execute(func() {}), errors.ErrDispatcherStopped)
}
