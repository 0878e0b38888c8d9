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
	"context"
	"fmt"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/log"
)

// ReceiveContext is handed to Actor.Receive for every message.
// It is only valid during that call.
type ReceiveContext struct {
	ctx     context.Context
	message *Message
	self    *PID
}

func newReceiveContext(ctx context.Context, message *Message, self *PID) *ReceiveContext {
	return &ReceiveContext{ctx: ctx, message: message, self: self}
}

// Context returns the context of the actor system
func (rctx *ReceiveContext) Context() context.Context {
	return rctx.ctx
}

// Message returns the message being processed
func (rctx *ReceiveContext) Message() *Message {
	return rctx.message
}

// Body is a shortcut to Message().Body()
func (rctx *ReceiveContext) Body() any {
	return rctx.message.Body()
}

// Self returns the address of the receiving actor
func (rctx *ReceiveContext) Self() address.Address {
	return rctx.self.Address()
}

// Sender returns the address of the sender, zero when there is none
func (rctx *ReceiveContext) Sender() address.Address {
	return rctx.message.Sender()
}

// CorrelationKey returns the correlation key of the message being processed
func (rctx *ReceiveContext) CorrelationKey() CorrelationKey {
	return rctx.message.CorrelationKey()
}

// Tell sends an uncorrelated message to the given actor
func (rctx *ReceiveContext) Tell(to address.Address, body any) error {
	return rctx.Send(NewMessage(body, to, WithSender(rctx.Self())))
}

// Send delivers an already built message
func (rctx *ReceiveContext) Send(msg *Message) error {
	return rctx.self.system.Tell(rctx.ctx, msg)
}

// Reply sends body back to the sender with the same correlation key
func (rctx *ReceiveContext) Reply(body any) error {
	sender := rctx.Sender()
	if sender.IsZero() {
		return fmt.Errorf("%w: no sender to reply to", errors.ErrInvalidMessage)
	}
	return rctx.Send(NewMessage(body, sender,
		WithSender(rctx.Self()),
		WithCorrelationKey(rctx.CorrelationKey())))
}

// Forward sends the message being processed to another actor.
// Sender and correlation key are kept so the reply skips this actor.
func (rctx *ReceiveContext) Forward(to address.Address) error {
	return rctx.Send(rctx.message.WithDestination(to))
}

// Stop stops the receiving actor once the current message is processed
func (rctx *ReceiveContext) Stop() {
	rctx.self.requestStop()
}

// StopActor asks another actor to stop without waiting for it
func (rctx *ReceiveContext) StopActor(addr address.Address) error {
	pid, err := rctx.self.system.PIDOf(addr)
	if err != nil {
		return err
	}
	pid.requestStop()
	return nil
}

// Logger returns the logger of the receiving actor
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.self.logger
}

// System returns the actor system
func (rctx *ReceiveContext) System() ActorSystem {
	return rctx.self.system
}
