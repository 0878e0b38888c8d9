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
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
)

// CorrelationKey links a request to its reply
type CorrelationKey string

// Uncorrelated marks messages exchanged outside any request/reply
const Uncorrelated CorrelationKey = ""

// IsCorrelated reports whether k belongs to a request/reply exchange
func (k CorrelationKey) IsCorrelated() bool {
	return k != Uncorrelated
}

// correlationKeys generates keys unique to one actor system instance
type correlationKeys struct {
	prefix string
	seq    atomic.Uint64
}

func newCorrelationKeys() *correlationKeys {
	return &correlationKeys{prefix: uuid.NewString()}
}

func (g *correlationKeys) next() CorrelationKey {
	return CorrelationKey(g.prefix + "-" + strconv.FormatUint(g.seq.Inc(), 10))
}

// Message is an immutable envelope. Every With method returns a new envelope
// sharing the correlation key of the receiver. Two messages are the same
// message only when they are the same envelope.
type Message struct {
	body        any
	destination address.Address
	sender      address.Address
	key         CorrelationKey
}

// MessageOption configures a new Message
type MessageOption func(*Message)

// WithSender sets the sender of a new Message
func WithSender(sender address.Address) MessageOption {
	return func(m *Message) {
		m.sender = sender
	}
}

// WithCorrelationKey sets the correlation key of a new Message
func WithCorrelationKey(key CorrelationKey) MessageOption {
	return func(m *Message) {
		m.key = key
	}
}

// NewMessage creates an uncorrelated Message without sender unless told otherwise
func NewMessage(body any, destination address.Address, opts ...MessageOption) *Message {
	m := &Message{
		body:        body,
		destination: destination,
		key:         Uncorrelated,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Body returns the payload
func (m *Message) Body() any {
	return m.body
}

// Destination returns the address of the receiving actor
func (m *Message) Destination() address.Address {
	return m.destination
}

// Sender returns the address of the sending actor, zero when there is none
func (m *Message) Sender() address.Address {
	return m.sender
}

// CorrelationKey returns the correlation key
func (m *Message) CorrelationKey() CorrelationKey {
	return m.key
}

// WithBody returns a copy of m carrying body
func (m *Message) WithBody(body any) *Message {
	c := *m
	c.body = body
	return &c
}

// WithDestination returns a copy of m sent to destination
func (m *Message) WithDestination(destination address.Address) *Message {
	c := *m
	c.destination = destination
	return &c
}

// WithSender returns a copy of m sent by sender
func (m *Message) WithSender(sender address.Address) *Message {
	c := *m
	c.sender = sender
	return &c
}

// MapBody returns a copy of msg whose body is fn applied to the body of msg.
// It fails with a TypeMismatchError when the body is not a T.
func MapBody[T, U any](msg *Message, fn func(T) U) (*Message, error) {
	body, err := Expect[T](msg)
	if err != nil {
		return nil, err
	}
	return msg.WithBody(fn(body)), nil
}

// Expect returns the body of msg as a T or a TypeMismatchError
func Expect[T any](msg *Message) (T, error) {
	body, ok := msg.Body().(T)
	if !ok {
		var zero T
		return zero, errors.NewTypeMismatchError(typeName[T](), msg.Body())
	}
	return body, nil
}

// Match calls handler with the body of msg when it is a T, otherwise it calls otherwise.
// Nesting Match calls chains the checks, the first matching type wins.
func Match[T any](msg *Message, handler func(T) error, otherwise func() error) error {
	if body, ok := msg.Body().(T); ok {
		return handler(body)
	}

	if otherwise == nil {
		return nil
	}
	return otherwise()
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// SystemMessage is implemented by the messages the runtime itself sends
type SystemMessage interface {
	systemMessage()
}

// PoisonPill stops the receiving actor once the messages queued before it are processed
type PoisonPill struct{}

// TimedOut is sent by a TimeoutSupervisor when its deadline passed
type TimedOut struct {
	After time.Duration
}

func (*PoisonPill) systemMessage() {}
func (*TimedOut) systemMessage()   {}
