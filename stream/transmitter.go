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
	"fmt"
	"time"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/future"
	"github.com/tidewave/courier/internal/errorschain"
	"github.com/tidewave/courier/supervisor"
)

type state int

const (
	startState state = iota
	receiveState
	submitState
	completeState
	failState
)

func (s state) String() string {
	switch s {
	case startState:
		return "Start"
	case receiveState:
		return "Receive"
	case submitState:
		return "Submit"
	case completeState:
		return "Complete"
	case failState:
		return "Fail"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s state) isTerminal() bool {
	return s == completeState || s == failState
}

// transmitter is the actor moving the chunks of one stream.
//
//	Start -> Receive <-> Submit -> Complete | Fail
//
// Receive waits for the source, Submit waits for the destination. Any error
// moves it to Fail, which releases both endpoints with the cause.
type transmitter[T Data] struct {
	conn        Connection[T]
	source      Source[T]
	destination Destination[T]
	deferred    *future.Deferred[Stat]

	state    state
	stat     Stat
	released bool
}

var (
	_ actor.Actor         = (*transmitter[BinaryChunk])(nil)
	_ actor.FaultResolver = (*transmitter[BinaryChunk])(nil)
)

func (t *transmitter[T]) PreStart(context.Context) error {
	return nil
}

func (t *transmitter[T]) Receive(rctx *actor.ReceiveContext) error {
	if t.state.isTerminal() {
		rctx.Logger().Debugf("dropping %T received in state %s", rctx.Body(), t.state)
		return nil
	}

	switch cmd := rctx.Body().(type) {
	case *startCommand:
		if err := t.expect(startState, "Start"); err != nil {
			return err
		}
		t.stat.StartedAt = time.Now()
		t.state = receiveState
		return t.source.Read(t.conn)

	case *submitCommand[T]:
		if err := t.expect(receiveState, "Submit"); err != nil {
			return err
		}
		if cmd.data.IsEmpty() {
			return t.complete(rctx)
		}
		t.stat.Chunks++
		t.stat.Bytes += int64(cmd.size)
		t.state = submitState
		return t.destination.Write(t.conn, cmd.data, cmd.size)

	case *receiveCommand:
		if err := t.expect(submitState, "Receive"); err != nil {
			return err
		}
		t.stat.Written++
		t.state = receiveState
		return t.source.Read(t.conn)

	case *completeCommand:
		if err := t.expect(receiveState, "Complete"); err != nil {
			return err
		}
		return t.complete(rctx)

	case *failCommand:
		if cmd.err == nil {
			return errors.ErrNilRejection
		}
		return cmd.err

	default:
		return errors.NewTypeMismatchError("stream command", rctx.Body())
	}
}

// OnFault turns any failure into the Fail state
func (t *transmitter[T]) OnFault(rctx *actor.ReceiveContext, err error) supervisor.Directive {
	rctx.Logger().Warnf("stream failed in state %s: %v", t.state, err)
	t.fail(err)
	return supervisor.StopDirective
}

// PostStop fails a transfer that did not reach a terminal state
func (t *transmitter[T]) PostStop(context.Context) error {
	if !t.state.isTerminal() {
		t.fail(errors.ErrDead)
	}
	return nil
}

func (t *transmitter[T]) expect(expected state, command string) error {
	if t.state != expected {
		return errors.NewProtocolError(t.state.String(), command)
	}
	return nil
}

func (t *transmitter[T]) complete(rctx *actor.ReceiveContext) error {
	if err := t.release(nil); err != nil {
		return err
	}

	t.state = completeState
	t.stat.CompletedAt = time.Now()
	_ = t.deferred.Resolve(t.stat)
	rctx.Stop()
	return nil
}

func (t *transmitter[T]) fail(cause error) {
	t.state = failState
	if err := t.release(cause); err != nil {
		cause = fmt.Errorf("%w (release: %v)", cause, err)
	}
	_ = t.deferred.Reject(cause)
}

// release frees both endpoints, exactly once
func (t *transmitter[T]) release(cause error) error {
	if t.released {
		return nil
	}
	t.released = true

	return errorschain.New(errorschain.ReturnAll()).
		AddErrorFn(func() error { return t.source.Release(cause) }).
		AddErrorFn(func() error { return t.destination.Release(cause) }).
		Error()
}
