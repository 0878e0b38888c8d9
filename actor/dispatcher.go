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
	stderrors "errors"
	"time"

	"go.uber.org/atomic"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/internal/workerpool"
)

// Dispatcher runs the processing steps of the actors.
//
// The runtime submits a step of a given actor only when no other step of
// that actor is pending or running, so implementations are free to run
// tasks on as many goroutines as they like.
type Dispatcher interface {
	// Start prepares the dispatcher
	Start()
	// Stop rejects new tasks and waits for the running ones
	Stop()
	// Execute runs task, now or later. It fails once the dispatcher is stopped.
	Execute(task func()) error
}

// PoolDispatcher runs tasks on a sharded worker pool
type PoolDispatcher struct {
	pool *workerpool.WorkerPool
}

var _ Dispatcher = (*PoolDispatcher)(nil)

// NewPoolDispatcher creates a PoolDispatcher with numShards shards.
// Idle workers exit after idleTimeout.
func NewPoolDispatcher(numShards int, idleTimeout time.Duration) *PoolDispatcher {
	return &PoolDispatcher{
		pool: workerpool.New(
			workerpool.WithNumShards(numShards),
			workerpool.WithIdleTimeout(idleTimeout),
		),
	}
}

// Start starts the worker pool
func (d *PoolDispatcher) Start() {
	d.pool.Start()
}

// Stop stops the worker pool
func (d *PoolDispatcher) Stop() {
	d.pool.Stop()
}

// Execute submits task to the worker pool
func (d *PoolDispatcher) Execute(task func()) error {
	if err := d.pool.SubmitWork(task); err != nil {
		if stderrors.Is(err, workerpool.ErrNotRunning) {
			return errors.ErrDispatcherStopped
		}
		return err
	}
	return nil
}

// CallingThreadDispatcher runs every task on the goroutine that submits it.
// Sending a message processes it before the send returns, which makes tests
// deterministic.
type CallingThreadDispatcher struct {
	stopped atomic.Bool
}

var _ Dispatcher = (*CallingThreadDispatcher)(nil)

// NewCallingThreadDispatcher creates an instance of CallingThreadDispatcher
func NewCallingThreadDispatcher() *CallingThreadDispatcher {
	return &CallingThreadDispatcher{}
}

// Start implements Dispatcher
func (d *CallingThreadDispatcher) Start() {
	d.stopped.Store(false)
}

// Stop implements Dispatcher
func (d *CallingThreadDispatcher) Stop() {
	d.stopped.Store(true)
}

// Execute runs task inline
func (d *CallingThreadDispatcher) Execute(task func()) error {
	if d.stopped.Load() {
		return errors.ErrDispatcherStopped
	}
	task()
	return nil
}
