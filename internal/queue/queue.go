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

package queue

import "sync"

// minQueueLen is the smallest capacity that queue may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue is a goroutine-safe FIFO backed by a growable ring buffer
type Queue[T any] struct {
	mu     sync.Mutex
	nodes  []T
	head   int
	tail   int
	count  int
	closed bool
}

// New creates an instance of Queue
func New[T any]() *Queue[T] {
	return &Queue[T]{nodes: make([]T, minQueueLen)}
}

// Push adds an item to the back of the queue.
// It returns false and drops the item once the queue is closed.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}

	if q.count == len(q.nodes) {
		q.resize(q.count << 1)
	}

	q.nodes[q.tail] = item
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
	return true
}

// Pop removes the item from the front of the queue.
// It returns false when the queue is empty or closed.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.count == 0 {
		return zero, false
	}

	item := q.nodes[q.head]
	q.nodes[q.head] = zero
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--

	if len(q.nodes) > minQueueLen && (q.count<<2) == len(q.nodes) {
		q.resize(len(q.nodes) >> 1)
	}
	return item, true
}

// CloseRemaining closes the queue and returns the items that were never popped
func (q *Queue[T]) CloseRemaining() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}

	remaining := make([]T, 0, q.count)
	for i := 0; i < q.count; i++ {
		remaining = append(remaining, q.nodes[(q.head+i)&(len(q.nodes)-1)])
	}

	q.closed = true
	q.count = 0
	q.nodes = nil
	return remaining
}

// IsClosed returns true if the queue has been closed
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len return the current length of the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// IsEmpty returns true when the queue is empty
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

func (q *Queue[T]) resize(size int) {
	if size < minQueueLen {
		size = minQueueLen
	}

	nodes := make([]T, size)
	for i := 0; i < q.count; i++ {
		nodes[i] = q.nodes[(q.head+i)&(len(q.nodes)-1)]
	}

	q.head = 0
	q.tail = q.count & (size - 1)
	q.nodes = nodes
}
