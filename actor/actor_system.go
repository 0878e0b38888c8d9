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
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/internal/validation"
	"github.com/tidewave/courier/internal/xsync"
	imetric "github.com/tidewave/courier/internal/metric"
	"github.com/tidewave/courier/log"
	"github.com/tidewave/courier/scheduler"
)

// ActorSystem is the registry and entry point of a set of actors
type ActorSystem interface {
	// Name returns the actor system name
	Name() string
	// Start starts the dispatcher and the scheduler. A stopped system cannot be started again.
	Start(ctx context.Context) error
	// Stop stops every actor then the dispatcher and the scheduler
	Stop(ctx context.Context) error
	// Running reports whether the system is started
	Running() bool
	// ActorOf creates an actor under name and returns its address once PreStart succeeded
	ActorOf(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (address.Address, error)
	// Tell enqueues msg into the mailbox of its destination without waiting for it to be processed
	Tell(ctx context.Context, msg *Message) error
	// Send is Tell with an uncorrelated message without sender
	Send(ctx context.Context, to address.Address, body any) error
	// StopActor stops the actor and waits for its PostStop to return
	StopActor(ctx context.Context, addr address.Address) error
	// Lookup resolves an actor name
	Lookup(name string) (address.Address, bool)
	// Exists reports whether addr designates a live actor
	Exists(addr address.Address) bool
	// PIDOf returns the running instance behind addr
	PIDOf(addr address.Address) (*PID, error)
	// NewCorrelationKey returns a key unique within this system
	NewCorrelationKey() CorrelationKey
	// ScheduleOnce runs task once after delay
	ScheduleOnce(delay time.Duration, task func(ctx context.Context)) (*scheduler.Cancellable, error)
	// Dispatcher returns the dispatcher running the actors
	Dispatcher() Dispatcher
	// Logger returns the system logger
	Logger() log.Logger
	// ActorsCount returns the number of registered actors
	ActorsCount() int
	// DeadlettersCount returns the number of messages that could not be delivered
	DeadlettersCount() int64
}

type actorSystem struct {
	name              string
	logger            log.Logger
	dispatcher        Dispatcher
	scheduler         *scheduler.Scheduler
	throughput        int
	shutdownTimeout   time.Duration
	initMaxRetries    int
	initTimeout       time.Duration
	escalationHandler EscalationHandler
	meterProvider     metric.MeterProvider
	registration      metric.Registration

	actors *xsync.Map[string, *PID]
	keys   *correlationKeys

	started     atomic.Bool
	terminated  atomic.Bool
	startStopMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc

	deadletters atomic.Int64
	processed   atomic.Int64
	failures    atomic.Int64
}

var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an actor system. It has to be started before use.
func NewActorSystem(name string, opts ...Option) (ActorSystem, error) {
	if err := validation.NewNameValidator(name, validation.SystemNamePattern, errors.ErrInvalidActorSystemName).Validate(); err != nil {
		return nil, err
	}

	system := &actorSystem{
		name:            name,
		throughput:      DefaultThroughput,
		shutdownTimeout: DefaultShutdownTimeout,
		initMaxRetries:  DefaultInitMaxRetries,
		initTimeout:     DefaultInitTimeout,
		actors:          xsync.NewMap[string, *PID](),
		keys:            newCorrelationKeys(),
		ctx:             context.Background(),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if system.logger == nil {
		system.logger = defaultLogger()
	}
	system.logger = system.logger.With("system", name)

	if system.dispatcher == nil {
		system.dispatcher = defaultDispatcher()
	}

	if system.escalationHandler == nil {
		system.escalationHandler = logEscalation(system.logger)
	}

	if system.meterProvider == nil {
		system.meterProvider = noop.NewMeterProvider()
	}

	var err error
	if system.scheduler, err = scheduler.New(system.logger, scheduler.WithStopTimeout(system.shutdownTimeout)); err != nil {
		return nil, err
	}
	return system, nil
}

// Name returns the actor system name
func (x *actorSystem) Name() string {
	return x.name
}

// Start starts the actor system
func (x *actorSystem) Start(ctx context.Context) error {
	x.startStopMu.Lock()
	defer x.startStopMu.Unlock()
	if x.started.Load() {
		return errors.ErrActorSystemAlreadyStarted
	}

	// the worker pool does not survive Stop
	if x.terminated.Load() {
		return errors.ErrActorSystemStopped
	}

	if err := x.registerMetrics(); err != nil {
		return err
	}

	x.ctx, x.cancel = context.WithCancel(context.WithoutCancel(ctx))
	x.dispatcher.Start()
	x.scheduler.Start(x.ctx)
	x.started.Store(true)
	x.logger.Infof("actor system %s started", x.name)
	return nil
}

// Stop stops the actor system
func (x *actorSystem) Stop(ctx context.Context) error {
	x.startStopMu.Lock()
	defer x.startStopMu.Unlock()
	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}

	x.logger.Infof("stopping actor system %s", x.name)
	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, pid := range x.actors.Values() {
		eg.Go(func() error {
			return pid.stop(egCtx)
		})
	}

	err := eg.Wait()
	x.started.Store(false)
	x.terminated.Store(true)
	x.scheduler.Stop(ctx)
	x.dispatcher.Stop()
	x.cancel()

	if x.registration != nil {
		err = multierr.Append(err, x.registration.Unregister())
		x.registration = nil
	}

	x.actors.Reset()
	x.logger.Infof("actor system %s stopped", x.name)
	return multierr.Append(err, x.logger.Flush())
}

// Running reports whether the system is started
func (x *actorSystem) Running() bool {
	return x.started.Load()
}

// ActorOf creates an actor and registers it under name
func (x *actorSystem) ActorOf(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (address.Address, error) {
	if !x.started.Load() {
		return address.NoSender(), errors.ErrActorSystemNotStarted
	}

	addr := address.New(x.name, name)
	if err := addr.Validate(); err != nil {
		return address.NoSender(), err
	}

	pid := newPID(x, addr, factory(), newSpawnConfig(opts...))
	if !x.actors.SetIfAbsent(name, pid) {
		return address.NoSender(), fmt.Errorf("%w: %s", errors.ErrActorAlreadyExists, name)
	}

	if err := x.initialize(ctx, pid); err != nil {
		pid.stopped.Store(true)
		for msg := pid.mailbox.Dequeue(); msg != nil; msg = pid.mailbox.Dequeue() {
			x.deadletter(msg, errors.ErrDead)
		}
		pid.mailbox.Dispose()
		x.deregister(pid)
		close(pid.done)
		return address.NoSender(), err
	}

	pid.start()
	pid.logger.Debugf("%s started", addr)
	return addr, nil
}

// initialize runs PreStart with retries
func (x *actorSystem) initialize(ctx context.Context, pid *PID) error {
	ctx, cancel := context.WithTimeout(ctx, x.initTimeout)
	defer cancel()

	retrier := retry.NewRetrier(max(x.initMaxRetries, 1), 10*time.Millisecond, x.initTimeout)
	err := retrier.RunContext(ctx, func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(r)
			}
		}()
		return pid.actor.PreStart(ctx)
	})

	if err != nil {
		return errors.NewInitError(err)
	}
	return nil
}

// Tell delivers msg to its destination
func (x *actorSystem) Tell(ctx context.Context, msg *Message) error {
	if msg == nil {
		return errors.ErrInvalidMessage
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}

	pid, err := x.PIDOf(msg.Destination())
	if err != nil {
		x.deadletter(msg, err)
		return err
	}

	if err := pid.enqueue(msg); err != nil {
		x.deadletter(msg, err)
		return err
	}
	return nil
}

// Send delivers body to the given actor
func (x *actorSystem) Send(ctx context.Context, to address.Address, body any) error {
	return x.Tell(ctx, NewMessage(body, to))
}

// StopActor stops the given actor and waits for it
func (x *actorSystem) StopActor(ctx context.Context, addr address.Address) error {
	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}

	pid, err := x.PIDOf(addr)
	if err != nil {
		return err
	}
	return pid.stop(ctx)
}

// Lookup resolves an actor name
func (x *actorSystem) Lookup(name string) (address.Address, bool) {
	pid, ok := x.actors.Get(name)
	if !ok || !pid.IsRunning() {
		return address.NoSender(), false
	}
	return pid.Address(), true
}

// Exists reports whether addr designates a live actor
func (x *actorSystem) Exists(addr address.Address) bool {
	_, err := x.PIDOf(addr)
	return err == nil
}

// PIDOf returns the running instance behind addr
func (x *actorSystem) PIDOf(addr address.Address) (*PID, error) {
	if addr.System() != x.name {
		return nil, fmt.Errorf("%w: %s", errors.ErrActorNotFound, addr)
	}

	pid, ok := x.actors.Get(addr.Name())
	if !ok || pid.stopped.Load() {
		return nil, fmt.Errorf("%w: %s", errors.ErrActorNotFound, addr)
	}
	return pid, nil
}

// NewCorrelationKey returns a key unique within this system
func (x *actorSystem) NewCorrelationKey() CorrelationKey {
	return x.keys.next()
}

// ScheduleOnce runs task once after delay
func (x *actorSystem) ScheduleOnce(delay time.Duration, task func(ctx context.Context)) (*scheduler.Cancellable, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	return x.scheduler.ScheduleOnce(delay, task)
}

// Dispatcher returns the dispatcher running the actors
func (x *actorSystem) Dispatcher() Dispatcher {
	return x.dispatcher
}

// Logger returns the system logger
func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

// ActorsCount returns the number of registered actors
func (x *actorSystem) ActorsCount() int {
	return x.actors.Len()
}

// DeadlettersCount returns the number of messages that could not be delivered
func (x *actorSystem) DeadlettersCount() int64 {
	return x.deadletters.Load()
}

func (x *actorSystem) context() context.Context {
	return x.ctx
}

func (x *actorSystem) deregister(pid *PID) {
	x.actors.CompareAndDelete(pid.Address().Name(), func(registered *PID) bool {
		return registered == pid
	})
}

func (x *actorSystem) deadletter(msg *Message, reason error) {
	x.deadletters.Inc()
	if x.logger.Enabled(log.DebugLevel) {
		x.logger.Debugf("dead letter %T to %s: %v", msg.Body(), msg.Destination(), reason)
	}
}

func (x *actorSystem) escalate(escalation Escalation) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Errorf("escalation handler panicked: %v", r)
		}
	}()
	x.escalationHandler(x.ctx, escalation)
}

func (x *actorSystem) registerMetrics() error {
	meter := x.meterProvider.Meter(meterName)
	metrics, err := imetric.NewSystemMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []metric.ObserveOption{
		metric.WithAttributes(attribute.String("actor.system", x.name)),
	}

	x.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(metrics.ActorsCount(), int64(x.ActorsCount()), observeOptions...)
		observer.ObserveInt64(metrics.DeadlettersCount(), x.deadletters.Load(), observeOptions...)
		observer.ObserveInt64(metrics.ProcessedCount(), x.processed.Load(), observeOptions...)
		observer.ObserveInt64(metrics.FailuresCount(), x.failures.Load(), observeOptions...)
		return nil
	}, metrics.Instruments()...)
	return err
}
