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
	"github.com/tidewave/courier/errors"
)

// Deferred is the write side of a Promise.
// Exactly one of Resolve or Reject succeeds.
type Deferred[T any] struct {
	promise *Promise[T]
}

// NewDeferred creates a Deferred with a pending Promise
func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{promise: newPromise[T]()}
}

// Resolve settles the promise with value.
// It returns ErrAlreadySettled when the promise already has an outcome.
func (d *Deferred[T]) Resolve(value T) error {
	return d.promise.settle(value, nil)
}

// Reject settles the promise with err.
// It returns ErrAlreadySettled when the promise already has an outcome.
func (d *Deferred[T]) Reject(err error) error {
	var zero T
	return d.promise.settle(zero, rejection(err))
}

// Promise returns the read side
func (d *Deferred[T]) Promise() *Promise[T] {
	return d.promise
}

// IsSettled reports whether the promise has an outcome
func (d *Deferred[T]) IsSettled() bool {
	return d.promise.IsSettled()
}

func rejection(err error) error {
	if err == nil {
		return errors.ErrNilRejection
	}
	return err
}
