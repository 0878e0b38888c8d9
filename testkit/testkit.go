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

// Package testkit helps testing actors: a TestKit owns a started actor
// system and a Probe records the messages sent to it.
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/log"
)

// TestKit defines actor test kit
type TestKit struct {
	actorSystem actor.ActorSystem
	kt          *testing.T
	logger      log.Logger
}

// New creates an instance of TestKit with a started actor system
func New(ctx context.Context, t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(testkit)
	}

	system, err := actor.NewActorSystem(
		"testkit",
		actor.WithLogger(testkit.logger),
		actor.WithInitTimeout(time.Second),
		actor.WithInitMaxRetries(5))
	if err != nil {
		t.Fatal(err.Error())
	}

	if err := system.Start(ctx); err != nil {
		t.Fatal(err.Error())
	}

	testkit.actorSystem = system
	return testkit
}

// ActorSystem returns the testkit actor system
func (k *TestKit) ActorSystem() actor.ActorSystem {
	return k.actorSystem
}

// Spawn creates an actor
func (k *TestKit) Spawn(ctx context.Context, name string, factory actor.Factory, opts ...actor.SpawnOption) address.Address {
	addr, err := k.actorSystem.ActorOf(ctx, name, factory, opts...)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return addr
}

// NewProbe creates a test probe in the testkit actor system
func (k *TestKit) NewProbe(ctx context.Context, opts ...ProbeOption) *Probe {
	return NewProbe(ctx, k.kt, k.actorSystem, opts...)
}

// Shutdown stops the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	if err := k.actorSystem.Stop(ctx); err != nil {
		k.kt.Fatal(err.Error())
	}
}
