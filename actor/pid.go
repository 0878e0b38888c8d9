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
	"runtime"
	"sync"

	"go.uber.org/atomic"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/log"
	"github.com/tidewave/courier/supervisor"
)

const (
	idle int32 = iota
	busy
)

// PID is the running instance of an actor
type PID struct {
	address    address.Address
	actor      Actor
	system     *actorSystem
	mailbox    Mailbox
	supervisor *supervisor.Supervisor
	logger     log.Logger
	throughput int

	// processing is busy while a processing step is submitted or running.
	// Only the goroutine flipping it from idle to busy may submit a step.
	processing atomic.Int32

	stopping atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}

	processed atomic.Int64
	failures  atomic.Int64
}

func newPID(system *actorSystem, addr address.Address, actor Actor, config *spawnConfig) *PID {
	pid := &PID{
		address:    addr,
		actor:      actor,
		system:     system,
		mailbox:    config.mailbox,
		supervisor: config.supervisor,
		logger:     system.logger.With("actor", addr.String()),
		throughput: system.throughput,
		done:       make(chan struct{}),
	}

	// nothing is processed before start flips it to idle
	pid.processing.Store(busy)
	return pid
}

// Address returns the address of the actor
func (pid *PID) Address() address.Address {
	return pid.address
}

// IsRunning reports whether the actor accepts messages
func (pid *PID) IsRunning() bool {
	return !pid.stopped.Load() && !pid.stopping.Load()
}

// ProcessedCount returns the number of processed messages
func (pid *PID) ProcessedCount() int64 {
	return pid.processed.Load()
}

// FailureCount returns the number of failed processing steps
func (pid *PID) FailureCount() int64 {
	return pid.failures.Load()
}

// MailboxSize returns the number of pending messages
func (pid *PID) MailboxSize() int64 {
	return pid.mailbox.Len()
}

// Done is closed once the actor is stopped
func (pid *PID) Done() <-chan struct{} {
	return pid.done
}

// start lets the actor process its mailbox
func (pid *PID) start() {
	pid.processing.Store(idle)
	if !pid.mailbox.IsEmpty() || pid.stopping.Load() {
		pid.schedule()
	}
}

// enqueue adds msg to the mailbox and makes sure a processing step is on its way
func (pid *PID) enqueue(msg *Message) error {
	if pid.stopped.Load() {
		return errors.ErrDead
	}

	if err := pid.mailbox.Enqueue(msg); err != nil {
		if err == errors.ErrMailboxDisposed {
			return errors.ErrDead
		}
		return err
	}

	pid.schedule()
	return nil
}

// requestStop stops the actor after the message being processed, if any
func (pid *PID) requestStop() {
	if pid.stopping.CompareAndSwap(false, true) {
		pid.schedule()
	}
}

// stop requests a stop and waits until the actor is stopped
func (pid *PID) stop(ctx context.Context) error {
	pid.requestStop()
	select {
	case <-pid.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop %s: %w", pid.address, ctx.Err())
	}
}

func (pid *PID) schedule() {
	if !pid.processing.CompareAndSwap(idle, busy) {
		return
	}

	if err := pid.system.dispatcher.Execute(pid.run); err != nil {
		pid.processing.Store(idle)
		pid.logger.Warnf("failed to schedule %s: %v", pid.address, err)
	}
}

// run is one processing step: at most throughput messages, then the actor
// either keeps its turn by resubmitting itself or goes idle.
func (pid *PID) run() {
	for range pid.throughput {
		if pid.stopping.Load() {
			pid.shutdown()
			return
		}

		msg := pid.mailbox.Dequeue()
		if msg == nil {
			break
		}
		pid.handle(msg)
	}

	if pid.stopping.Load() {
		pid.shutdown()
		return
	}

	if !pid.mailbox.IsEmpty() {
		if err := pid.system.dispatcher.Execute(pid.run); err == nil {
			return
		}
	}

	pid.processing.Store(idle)
	// a message may have landed between the last Dequeue and the Store above
	if !pid.mailbox.IsEmpty() || pid.stopping.Load() {
		pid.schedule()
	}
}

func (pid *PID) handle(msg *Message) {
	if _, ok := msg.Body().(*PoisonPill); ok {
		pid.stopping.Store(true)
		return
	}

	rctx := newReceiveContext(pid.system.context(), msg, pid)
	err := pid.receive(rctx)
	pid.processed.Inc()
	pid.system.processed.Inc()

	if err != nil {
		pid.failures.Inc()
		pid.system.failures.Inc()
		pid.resolve(rctx, err)
	}
}

// receive calls the actor and turns a panic into a PanicError
func (pid *PID) receive(rctx *ReceiveContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return pid.actor.Receive(rctx)
}

func (pid *PID) resolve(rctx *ReceiveContext, err error) {
	directive := pid.decide(rctx, err)
	switch directive {
	case supervisor.ResumeDirective:
		pid.logger.Warnf("failed to process %T: %v", rctx.Body(), err)
	case supervisor.StopDirective:
		pid.logger.Warnf("stopping after failing to process %T: %v", rctx.Body(), err)
		pid.stopping.Store(true)
	case supervisor.EscalateDirective:
		pid.system.escalate(Escalation{
			Address: pid.address,
			Message: rctx.Message(),
			Err:     err,
		})
		pid.stopping.Store(true)
	}
}

func (pid *PID) decide(rctx *ReceiveContext, err error) (directive supervisor.Directive) {
	resolver, ok := pid.actor.(FaultResolver)
	if !ok {
		return pid.supervisor.Decide(err)
	}

	defer func() {
		if r := recover(); r != nil {
			pid.logger.Errorf("fault resolver panicked: %v", r)
			directive = supervisor.StopDirective
		}
	}()
	return resolver.OnFault(rctx, err)
}

// shutdown runs inside a processing step, never concurrently with Receive
func (pid *PID) shutdown() {
	pid.stopOnce.Do(func() {
		pid.stopped.Store(true)
		if err := pid.postStop(); err != nil {
			pid.logger.Errorf("postStop failed: %v", err)
		}

		for msg := pid.mailbox.Dequeue(); msg != nil; msg = pid.mailbox.Dequeue() {
			pid.system.deadletter(msg, errors.ErrDead)
		}
		pid.mailbox.Dispose()

		pid.system.deregister(pid)
		close(pid.done)
		pid.logger.Debugf("%s stopped", pid.address)
	})
}

func (pid *PID) postStop() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return pid.actor.PostStop(pid.system.context())
}

// recovered wraps a recovered value with the location of the panic
func recovered(r any) error {
	pc, file, line, _ := runtime.Caller(3)
	if err, ok := r.(error); ok {
		return errors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), file, line))
	}
	return errors.NewPanicError(fmt.Errorf("%v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), file, line))
}
