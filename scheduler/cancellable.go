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
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"
)

const (
	pending int32 = iota
	fired
	cancelled
)

// Cancellable is the handle of a scheduled task.
// Firing and cancelling race on the same state so only one of them takes effect.
type Cancellable struct {
	key       *quartz.JobKey
	scheduler *Scheduler
	state     atomic.Int32
}

// Cancel prevents the task from running.
// It returns false when the task already fired or was already cancelled.
func (c *Cancellable) Cancel() bool {
	if !c.state.CompareAndSwap(pending, cancelled) {
		return false
	}
	c.scheduler.remove(c.key)
	return true
}

// Fired reports whether the task ran
func (c *Cancellable) Fired() bool {
	return c.state.Load() == fired
}

// Cancelled reports whether the task was cancelled before running
func (c *Cancellable) Cancelled() bool {
	return c.state.Load() == cancelled
}
