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

// Package future bridges asynchronous outcomes to ordinary call sites.
//
// A Promise is the read side of a single-assignment result; a Deferred is its
// write side. Callbacks registered on a pending Promise are queued and run on
// the goroutine that settles it. Callbacks registered on a settled Promise run
// immediately on the registering goroutine.
//
// Example usage:
//
//	promise := future.Of(dispatcher, func(d *future.Deferred[int]) {
//	    _ = d.Resolve(42)
//	})
//
//	promise.
//	    Then(func(v int) { fmt.Println(v) }).
//	    Error(func(err error) { fmt.Println(err) })
//
//	value, err := promise.Await(ctx)
package future

import (
	"context"
	"math"
	"sync"

	"github.com/tidewave/courier/errors"
)

// catchAllRank places catch-all error handlers after every typed one
const catchAllRank = math.MaxInt32

// Promise is the eventual outcome of an asynchronous operation.
// Once settled, its outcome never changes.
type Promise[T any] struct {
	mu      sync.Mutex
	settled bool
	value   T
	err     error
	done    chan struct{}

	onValue   []func(T)
	onError   []*errorHandler
	onSettled []func(T, error)

	// bestRank is the rank of the error handlers that fired so far
	bestRank int
}

func newPromise[T any]() *Promise[T] {
	return &Promise[T]{
		done:     make(chan struct{}),
		bestRank: catchAllRank + 1,
	}
}

// Resolved returns a Promise already resolved with value
func Resolved[T any](value T) *Promise[T] {
	p := newPromise[T]()
	p.settle(value, nil)
	return p
}

// Rejected returns a Promise already rejected with err
func Rejected[T any](err error) *Promise[T] {
	p := newPromise[T]()
	var zero T
	p.settle(zero, rejection(err))
	return p
}

// Then registers fn to be called with the value once the promise resolves
func (p *Promise[T]) Then(fn func(T)) *Promise[T] {
	p.mu.Lock()
	if !p.settled {
		p.onValue = append(p.onValue, fn)
		p.mu.Unlock()
		return p
	}
	value, err := p.value, p.err
	p.mu.Unlock()

	if err == nil {
		safely(func() { fn(value) })
	}
	return p
}

// Error registers fn to be called with any rejection.
// It only fires when no typed handler registered with OnError matches better.
func (p *Promise[T]) Error(fn func(error)) *Promise[T] {
	p.register(&errorHandler{
		rank: func(error) int { return catchAllRank },
		fn:   fn,
	})
	return p
}

// OnError registers fn for rejections carrying an E in their unwrap chain.
// Among the handlers of a promise only the ones matching closest to the
// rejection itself fire.
func OnError[T any, E error](p *Promise[T], fn func(E)) *Promise[T] {
	p.register(&errorHandler{
		rank: rankOf[E],
		fn: func(err error) {
			if target, ok := find[E](err); ok {
				fn(target)
			}
		},
	})
	return p
}

// Finally registers fn to be called once the promise settles, whatever the outcome
func (p *Promise[T]) Finally(fn func()) *Promise[T] {
	p.onSettle(func(T, error) { fn() })
	return p
}

// Delegate settles d with the outcome of this promise.
// It is independent of the error handlers registered on this promise.
func (p *Promise[T]) Delegate(d *Deferred[T]) *Promise[T] {
	p.onSettle(func(value T, err error) {
		if err != nil {
			_ = d.Reject(err)
			return
		}
		_ = d.Resolve(value)
	})
	return p
}

// Await blocks until the promise settles or ctx is done.
// Callbacks registered before settlement have returned by then, so a
// callback must not Await its own promise.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the promise settles and its queued callbacks returned
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// IsSettled reports whether the promise has an outcome
func (p *Promise[T]) IsSettled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// Value returns the resolved value, the zero value while pending or when rejected
func (p *Promise[T]) Value() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Err returns the rejection, nil while pending or when resolved
func (p *Promise[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Map returns a promise resolved with fn applied to the value of p.
// A rejection of p or an error returned by fn rejects it.
func Map[T, U any](p *Promise[T], fn func(T) (U, error)) *Promise[U] {
	mapped := NewDeferred[U]()
	p.onSettle(func(value T, err error) {
		if err != nil {
			_ = mapped.Reject(err)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				_ = mapped.Reject(errors.PanicErrorFrom(r))
			}
		}()

		result, err := fn(value)
		if err != nil {
			_ = mapped.Reject(err)
			return
		}
		_ = mapped.Resolve(result)
	})
	return mapped.Promise()
}

func (p *Promise[T]) onSettle(fn func(T, error)) {
	p.mu.Lock()
	if !p.settled {
		p.onSettled = append(p.onSettled, fn)
		p.mu.Unlock()
		return
	}
	value, err := p.value, p.err
	p.mu.Unlock()
	safely(func() { fn(value, err) })
}

func (p *Promise[T]) register(handler *errorHandler) {
	p.mu.Lock()
	if !p.settled {
		p.onError = append(p.onError, handler)
		p.mu.Unlock()
		return
	}

	err := p.err
	if err == nil {
		p.mu.Unlock()
		return
	}

	// a late handler only fires when it matches at least as well as the ones that already fired
	rank := handler.rank(err)
	if rank < 0 || rank > p.bestRank {
		p.mu.Unlock()
		return
	}
	p.bestRank = rank
	p.mu.Unlock()
	handler.fire(err)
}

func (p *Promise[T]) settle(value T, err error) error {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return errors.ErrAlreadySettled
	}

	p.settled = true
	p.value = value
	p.err = err
	onValue, onError, onSettled := p.onValue, p.onError, p.onSettled
	p.onValue, p.onError, p.onSettled = nil, nil, nil

	var selected []*errorHandler
	if err != nil {
		selected, p.bestRank = best(onError, err)
	}
	p.mu.Unlock()

	if err == nil {
		for _, fn := range onValue {
			safely(func() { fn(value) })
		}
	}

	for _, handler := range selected {
		handler.fire(err)
	}

	for _, fn := range onSettled {
		safely(func() { fn(value, err) })
	}
	close(p.done)
	return nil
}

// safely runs a user callback on the settling goroutine, which may be an actor worker
func safely(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
