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

package interactor

import (
	"context"
	"time"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/future"
	"github.com/tidewave/courier/supervisor"
)

type stage int

const (
	requestWaiting stage = iota
	responseWaiting
)

func (s stage) String() string {
	switch s {
	case requestWaiting:
		return "RequestWaiting"
	case responseWaiting:
		return "ResponseWaiting"
	default:
		return "Unknown"
	}
}

// correlator is the ephemeral actor behind a single Invoke
type correlator[Q, R any] struct {
	target   address.Address
	after    time.Duration
	deferred *future.Deferred[R]
	timeout  *actor.TimeoutSupervisor
	stage    stage
	key      actor.CorrelationKey
}

var (
	_ actor.Actor         = (*correlator[any, any])(nil)
	_ actor.FaultResolver = (*correlator[any, any])(nil)
)

func (c *correlator[Q, R]) PreStart(context.Context) error {
	return nil
}

func (c *correlator[Q, R]) Receive(rctx *actor.ReceiveContext) error {
	switch c.stage {
	case requestWaiting:
		return c.forward(rctx)
	default:
		return c.await(rctx)
	}
}

// forward sends the request to the target on behalf of this actor
func (c *correlator[Q, R]) forward(rctx *actor.ReceiveContext) error {
	request, err := actor.Expect[Q](rctx.Message())
	if err != nil {
		return err
	}

	c.key = rctx.CorrelationKey()
	if err := rctx.Send(actor.NewMessage(request, c.target,
		actor.WithSender(rctx.Self()),
		actor.WithCorrelationKey(c.key))); err != nil {
		return err
	}

	if err := c.timeout.Supervise(rctx.Self(), c.key, c.after); err != nil {
		return err
	}
	c.stage = responseWaiting
	return nil
}

func (c *correlator[Q, R]) await(rctx *actor.ReceiveContext) error {
	if rctx.CorrelationKey() != c.key {
		rctx.Logger().Debugf("ignoring %T with correlation key %q", rctx.Body(), rctx.CorrelationKey())
		return nil
	}

	if timedOut, ok := rctx.Body().(*actor.TimedOut); ok {
		return errors.NewTimeoutError(timedOut.After)
	}
	c.timeout.Cancel()

	response, err := actor.Expect[R](rctx.Message())
	if err != nil {
		// a target may answer with the error that prevented it from replying
		if cause, ok := rctx.Body().(error); ok {
			return cause
		}
		return err
	}

	_ = c.deferred.Resolve(response)
	rctx.Stop()
	return nil
}

// OnFault rejects the promise with the failure and stops the correlator
func (c *correlator[Q, R]) OnFault(rctx *actor.ReceiveContext, err error) supervisor.Directive {
	c.timeout.Cancel()
	if rejectErr := c.deferred.Reject(err); rejectErr != nil {
		rctx.Logger().Debugf("failure in stage %s after settlement: %v", c.stage, err)
	}
	return supervisor.StopDirective
}

func (c *correlator[Q, R]) PostStop(context.Context) error {
	c.timeout.Cancel()
	_ = c.deferred.Reject(errors.ErrDead)
	return nil
}
