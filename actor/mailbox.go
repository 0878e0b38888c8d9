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
	gods "github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/internal/queue"
)

// Mailbox is the FIFO queue of pending messages of one actor.
// Enqueue may be called concurrently; Dequeue, IsEmpty and Dispose are only
// called by the owning actor.
type Mailbox interface {
	// Enqueue adds a message. It never blocks.
	Enqueue(msg *Message) error
	// Dequeue removes the oldest message, nil when the mailbox is empty
	Dequeue() *Message
	// IsEmpty reports whether Dequeue would return nil
	IsEmpty() bool
	// Len returns the number of queued messages
	Len() int64
	// Dispose rejects any further message
	Dispose()
}

// UnboundedMailbox is the default mailbox, a lock-free MPSC queue
type UnboundedMailbox struct {
	underlying *queue.Mpsc[*Message]
	disposed   atomic.Bool
}

var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an instance of UnboundedMailbox
func NewUnboundedMailbox() *UnboundedMailbox {
	return &UnboundedMailbox{underlying: queue.NewMpsc[*Message]()}
}

// Enqueue places the given message in the mailbox
func (m *UnboundedMailbox) Enqueue(msg *Message) error {
	if m.disposed.Load() {
		return errors.ErrMailboxDisposed
	}
	m.underlying.Push(msg)
	return nil
}

// Dequeue takes the oldest message from the mailbox
func (m *UnboundedMailbox) Dequeue() *Message {
	if m.disposed.Load() {
		return nil
	}
	msg, _ := m.underlying.Pop()
	return msg
}

// IsEmpty returns true when the mailbox is empty
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.disposed.Load() || m.underlying.IsEmpty()
}

// Len returns mailbox length
func (m *UnboundedMailbox) Len() int64 {
	return m.underlying.Len()
}

// Dispose disposes the mailbox
func (m *UnboundedMailbox) Dispose() {
	m.disposed.Store(true)
}

// BoundedMailbox holds at most a fixed number of messages.
// A full mailbox rejects new messages with ErrMailboxFull instead of
// blocking the sender.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a BoundedMailbox. The ring buffer rounds capacity
// up to the next power of two.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedMailbox{underlying: gods.NewRingBuffer(uint64(capacity))}
}

// Enqueue places the given message in the mailbox
func (m *BoundedMailbox) Enqueue(msg *Message) error {
	ok, err := m.underlying.Offer(msg)
	switch {
	case err != nil:
		return errors.ErrMailboxDisposed
	case !ok:
		return errors.ErrMailboxFull
	default:
		return nil
	}
}

// Dequeue takes the oldest message from the mailbox.
// The length check keeps Get from blocking on an empty buffer.
func (m *BoundedMailbox) Dequeue() *Message {
	if m.underlying.IsDisposed() || m.underlying.Len() == 0 {
		return nil
	}

	item, err := m.underlying.Get()
	if err != nil {
		return nil
	}
	msg, _ := item.(*Message)
	return msg
}

// IsEmpty returns true when the mailbox is empty
func (m *BoundedMailbox) IsEmpty() bool {
	return m.underlying.IsDisposed() || m.underlying.Len() == 0
}

// Len returns mailbox length
func (m *BoundedMailbox) Len() int64 {
	return int64(m.underlying.Len())
}

// Dispose disposes the mailbox
func (m *BoundedMailbox) Dispose() {
	m.underlying.Dispose()
}
