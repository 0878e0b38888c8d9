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

// Package actor is an in-process actor runtime.
//
// An actor owns its state and processes its mailbox one message at a time.
// Actors never share memory; they talk by sending immutable Message
// envelopes through the ActorSystem. A Dispatcher runs the processing steps
// and guarantees that two steps of the same actor never overlap.
package actor

import (
	"context"

	"github.com/tidewave/courier/supervisor"
)

// Actor is the behavior of an actor.
//
// PreStart runs once before the first message is processed; an error aborts
// the creation. Receive processes one message; a non nil error is the failure
// of that processing step and is handed to the fault policy of the actor.
// PostStop runs once after the last processed message.
type Actor interface {
	PreStart(ctx context.Context) error
	Receive(rctx *ReceiveContext) error
	PostStop(ctx context.Context) error
}

// FaultResolver is implemented by actors that decide on their own failures.
// When present it replaces the supervisor configured for the actor.
type FaultResolver interface {
	OnFault(rctx *ReceiveContext, err error) supervisor.Directive
}

// Factory creates the actor instance bound to a name
type Factory func() Actor

// ReceiveFunc is an Actor made of its Receive behavior only
type ReceiveFunc func(rctx *ReceiveContext) error

var _ Actor = ReceiveFunc(nil)

// PreStart implements Actor
func (ReceiveFunc) PreStart(context.Context) error { return nil }

// Receive implements Actor
func (f ReceiveFunc) Receive(rctx *ReceiveContext) error { return f(rctx) }

// PostStop implements Actor
func (ReceiveFunc) PostStop(context.Context) error { return nil }
