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

// Package interactor turns a message exchange with an actor into a single
// request/reply Promise.
//
// Each Invoke spawns a short-lived correlation actor. It forwards the request
// to the target as its own, waits for the reply carrying the same correlation
// key and settles the promise. A TimeoutSupervisor bounds the wait.
package interactor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/future"
)

// Interactor sends requests of type Q to a target actor expecting replies of type R
type Interactor[Q, R any] struct {
	system actor.ActorSystem
	target address.Address
	config *config
}

// New creates an Interactor bound to target
func New[Q, R any](system actor.ActorSystem, target address.Address, opts ...Option) *Interactor[Q, R] {
	return &Interactor[Q, R]{
		system: system,
		target: target,
		config: newConfig(opts...),
	}
}

// Target returns the address requests are sent to
func (x *Interactor[Q, R]) Target() address.Address {
	return x.target
}

// Invoke sends request to the target. The promise resolves with the reply,
// or rejects with a TimeoutError when no reply came in time, or with a
// TypeMismatchError when the reply is not an R.
func (x *Interactor[Q, R]) Invoke(ctx context.Context, request Q) *future.Promise[R] {
	deferred := future.NewDeferred[R]()
	correlator := &correlator[Q, R]{
		target:   x.target,
		after:    x.config.timeout,
		deferred: deferred,
		timeout:  actor.NewTimeoutSupervisor(x.system),
	}

	name := fmt.Sprintf("%s-%s", x.config.name, uuid.NewString())
	addr, err := x.system.ActorOf(ctx, name, func() actor.Actor { return correlator })
	if err != nil {
		_ = deferred.Reject(err)
		return deferred.Promise()
	}

	key := x.system.NewCorrelationKey()
	if err := x.system.Tell(ctx, actor.NewMessage(request, addr, actor.WithCorrelationKey(key))); err != nil {
		_ = deferred.Reject(err)
		_ = x.system.StopActor(context.WithoutCancel(ctx), addr)
	}
	return deferred.Promise()
}
