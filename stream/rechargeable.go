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

package stream

import (
	"sync"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/internal/errorschain"
	"github.com/tidewave/courier/internal/queue"
)

// RechargeableSource reads a sequence of sources as a single one.
// When the current source completes it is released and the next queued
// source takes over. The stream completes once the queue is empty.
type RechargeableSource[T Data] struct {
	mu       sync.Mutex
	current  Source[T]
	pending  *queue.Queue[Source[T]]
	released bool
}

var _ Source[BinaryChunk] = (*RechargeableSource[BinaryChunk])(nil)

// NewRechargeableSource creates a RechargeableSource reading sources in order
func NewRechargeableSource[T Data](sources ...Source[T]) *RechargeableSource[T] {
	r := &RechargeableSource[T]{pending: queue.New[Source[T]]()}
	for _, source := range sources {
		r.pending.Push(source)
	}
	return r
}

// Recharge queues source after the ones already queued
func (r *RechargeableSource[T]) Recharge(source Source[T]) error {
	if !r.pending.Push(source) {
		return errors.ErrSourceReleased
	}
	return nil
}

// Pending returns the number of queued sources, the current one excluded
func (r *RechargeableSource[T]) Pending() int {
	return r.pending.Len()
}

// Read implements Source
func (r *RechargeableSource[T]) Read(conn Connection[T]) error {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return errors.ErrSourceReleased
	}

	current := r.current
	if current == nil {
		next, ok := r.pending.Pop()
		if !ok {
			r.mu.Unlock()
			return conn.Complete()
		}
		r.current = next
		current = next
	}
	r.mu.Unlock()

	return current.Read(&rechargeConnection[T]{Connection: conn, source: r})
}

// Release releases the current source and every queued one
func (r *RechargeableSource[T]) Release(cause error) error {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return nil
	}
	r.released = true
	current := r.current
	r.current = nil
	r.mu.Unlock()

	chain := errorschain.New(errorschain.ReturnAll())
	if current != nil {
		chain.AddErrorFn(func() error { return current.Release(cause) })
	}
	for _, source := range r.pending.CloseRemaining() {
		chain.AddErrorFn(func() error { return source.Release(cause) })
	}
	return chain.Error()
}

// next releases the exhausted source and reads from the following one
func (r *RechargeableSource[T]) next(conn Connection[T]) error {
	r.mu.Lock()
	exhausted := r.current
	r.current = nil
	r.mu.Unlock()

	if exhausted != nil {
		if err := exhausted.Release(nil); err != nil {
			return err
		}
	}
	return r.Read(conn)
}

// rechargeConnection hides the completion of a single source from the transmitter
type rechargeConnection[T Data] struct {
	Connection[T]
	source *RechargeableSource[T]
}

func (c *rechargeConnection[T]) Submit(data T, size int) error {
	if data.IsEmpty() {
		return c.Complete()
	}
	return c.Connection.Submit(data, size)
}

func (c *rechargeConnection[T]) Complete() error {
	return c.source.next(c.Connection)
}
