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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tidewave/courier/log"
	"github.com/tidewave/courier/supervisor"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(sys *actorSystem)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*actorSystem)

// Apply applies the option
func (f OptionFunc) Apply(sys *actorSystem) {
	f(sys)
}

// WithLogger sets the logger of the actor system and of every actor in it
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.logger = logger
	})
}

// WithDispatcher sets the dispatcher running the actors
func WithDispatcher(dispatcher Dispatcher) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.dispatcher = dispatcher
	})
}

// WithThroughput sets how many messages an actor processes before yielding its worker
func WithThroughput(throughput int) Option {
	return OptionFunc(func(sys *actorSystem) {
		if throughput > 0 {
			sys.throughput = throughput
		}
	})
}

// WithShutdownTimeout bounds the time Stop waits for the actors
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.shutdownTimeout = timeout
	})
}

// WithInitMaxRetries sets the number of PreStart attempts
func WithInitMaxRetries(retries int) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.initMaxRetries = retries
	})
}

// WithInitTimeout bounds all the PreStart attempts of one actor
func WithInitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.initTimeout = timeout
	})
}

// WithEscalationHandler receives the failures escalated by the actors
func WithEscalationHandler(handler EscalationHandler) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.escalationHandler = handler
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider used for the system metrics
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(sys *actorSystem) {
		sys.meterProvider = provider
	})
}

// SpawnOption configures a single actor
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	newMailbox func() Mailbox
	mailbox    Mailbox
	supervisor *supervisor.Supervisor
}

func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	config := &spawnConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if config.newMailbox != nil {
		config.mailbox = config.newMailbox()
	}

	if config.mailbox == nil {
		config.mailbox = NewUnboundedMailbox()
	}

	if config.supervisor == nil {
		config.supervisor = supervisor.NewSupervisor()
	}
	return config
}

// WithMailbox sets the mailbox of the actor. newMailbox is called once per
// spawned actor, so the option can be shared between ActorOf calls.
//
//	system.ActorOf(ctx, "worker", factory, actor.WithMailbox(func() actor.Mailbox {
//		return actor.NewBoundedMailbox(64)
//	}))
func WithMailbox(newMailbox func() Mailbox) SpawnOption {
	return func(config *spawnConfig) {
		config.newMailbox = newMailbox
	}
}

// WithSupervisor sets the fault policy of an actor that is not a FaultResolver
func WithSupervisor(supervisor *supervisor.Supervisor) SpawnOption {
	return func(config *spawnConfig) {
		config.supervisor = supervisor
	}
}
