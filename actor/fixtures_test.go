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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/log"
	"github.com/tidewave/courier/supervisor"
)

var errBoom = errors.New("boom")

type fail struct{ err error }
type explode struct{}
type ping struct{ seq int }
type pong struct{ seq int }

// recorder keeps every body it receives and replies pong to ping
type recorder struct {
	mu        sync.Mutex
	received  []any
	preStarts atomic.Int32
	postStops atomic.Int32
	inFlight  atomic.Int32
	overlaps  atomic.Int32
	delay     time.Duration
}

func (r *recorder) PreStart(context.Context) error {
	r.preStarts.Inc()
	return nil
}

func (r *recorder) Receive(rctx *ReceiveContext) error {
	if r.inFlight.Inc() != 1 {
		r.overlaps.Inc()
	}
	defer r.inFlight.Dec()

	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	r.mu.Lock()
	r.received = append(r.received, rctx.Body())
	r.mu.Unlock()

	switch body := rctx.Body().(type) {
	case *ping:
		return rctx.Reply(&pong{seq: body.seq})
	case *fail:
		return body.err
	case *explode:
		panic("exploded")
	default:
		return nil
	}
}

func (r *recorder) PostStop(context.Context) error {
	r.postStops.Inc()
	return nil
}

func (r *recorder) bodies() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.received...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

// resolver stops itself on any failure and remembers the error
type resolver struct {
	recorder
	faults chan error
}

func (r *resolver) OnFault(_ *ReceiveContext, err error) supervisor.Directive {
	r.faults <- err
	return supervisor.StopDirective
}

// flaky fails PreStart a number of times
type flaky struct {
	recorder
	failures atomic.Int32
}

func (f *flaky) PreStart(ctx context.Context) error {
	if f.failures.Dec() >= 0 {
		return errBoom
	}
	return f.recorder.PreStart(ctx)
}

func startSystem(t *testing.T, opts ...Option) ActorSystem {
	t.Helper()
	ctx := context.Background()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	system, err := NewActorSystem("test", opts...)
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() {
		if system.Running() {
			_ = system.Stop(ctx)
		}
	})
	return system
}

func spawn(t *testing.T, system ActorSystem, name string, actor Actor, opts ...SpawnOption) address.Address {
	t.Helper()
	addr, err := system.ActorOf(context.Background(), name, func() Actor { return actor }, opts...)
	require.NoError(t, err)
	return addr
}
