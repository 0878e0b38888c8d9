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
	"context"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
)

// Connection is the handle endpoints use to drive the transmitter.
// Every call is a message to the transmitter actor and returns once it is
// enqueued, so endpoints may call it from Read and Write or later from any
// goroutine.
type Connection[T Data] interface {
	// Context returns the context the stream was started with
	Context() context.Context
	// Submit hands a chunk read by the source to the destination.
	// Submitting an empty chunk completes the stream.
	Submit(data T, size int) error
	// Receive acknowledges the last written chunk and asks the source for the next one
	Receive() error
	// Complete signals that the source has no more data
	Complete() error
	// Fail aborts the stream with err
	Fail(err error) error
}

// transmitter commands
type (
	startCommand  struct{}
	submitCommand[T Data] struct {
		data T
		size int
	}
	receiveCommand  struct{}
	completeCommand struct{}
	failCommand     struct {
		err error
	}
)

type connection[T Data] struct {
	ctx         context.Context
	system      actor.ActorSystem
	transmitter address.Address
}

var _ Connection[BinaryChunk] = (*connection[BinaryChunk])(nil)

func (c *connection[T]) Context() context.Context {
	return c.ctx
}

func (c *connection[T]) Submit(data T, size int) error {
	return c.send(&submitCommand[T]{data: data, size: size})
}

func (c *connection[T]) Receive() error {
	return c.send(new(receiveCommand))
}

func (c *connection[T]) Complete() error {
	return c.send(new(completeCommand))
}

func (c *connection[T]) Fail(err error) error {
	return c.send(&failCommand{err: err})
}

func (c *connection[T]) send(command any) error {
	return c.system.Tell(context.WithoutCancel(c.ctx), actor.NewMessage(command, c.transmitter))
}
