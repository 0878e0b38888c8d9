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
	"fmt"

	"github.com/tidewave/courier/errors"
)

// Executor runs tasks. actor.Dispatcher satisfies it.
type Executor interface {
	Execute(task func()) error
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(task func()) error

// Execute implements Executor
func (f ExecutorFunc) Execute(task func()) error {
	return f(task)
}

type inlineExecutor struct{}

// Execute implements Executor
func (inlineExecutor) Execute(task func()) error {
	task()
	return nil
}

// InlineExecutor runs every task on the submitting goroutine
var InlineExecutor Executor = inlineExecutor{}

// Of returns a pending Promise immediately and runs fn on executor.
// fn must settle the Deferred exactly once, now or later. A panic in fn
// rejects the promise with a PanicError; so does a refusal of the executor
// with its error. A nil executor runs fn inline.
func Of[T any](executor Executor, fn func(*Deferred[T])) *Promise[T] {
	if executor == nil {
		executor = InlineExecutor
	}

	deferred := NewDeferred[T]()
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				_ = deferred.Reject(errors.PanicErrorFrom(r))
			}
		}()
		fn(deferred)
	}

	if err := executor.Execute(task); err != nil {
		_ = deferred.Reject(fmt.Errorf("failed to run promise executor: %w", err))
	}
	return deferred.Promise()
}
