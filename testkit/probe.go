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

package testkit

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/address"
)

const (
	MessagesQueueMax int           = 1000
	DefaultTimeout   time.Duration = 3 * time.Second
	// QuietPeriod is how long ExpectNoMessage listens
	QuietPeriod time.Duration = 100 * time.Millisecond
)

type message struct {
	sender address.Address
	body   any
}

// probeActor pushes every message it receives to the probe queue
type probeActor struct {
	messages chan message
}

var _ actor.Actor = (*probeActor)(nil)

func (x *probeActor) PreStart(context.Context) error {
	return nil
}

func (x *probeActor) Receive(rctx *actor.ReceiveContext) error {
	x.messages <- message{
		sender: rctx.Sender(),
		body:   rctx.Body(),
	}
	return nil
}

func (x *probeActor) PostStop(context.Context) error {
	return nil
}

// Probe is an actor recording what it receives, with assertions on the
// recorded messages. Messages sent with Send carry the probe as sender, so
// replies end up in the probe.
type Probe struct {
	pt      *testing.T
	ctx     context.Context
	system  actor.ActorSystem
	address address.Address

	messages   chan message
	lastSender address.Address
	timeout    time.Duration
}

// NewProbe spawns a probe in system. The test fails when it cannot be spawned.
func NewProbe(ctx context.Context, t *testing.T, system actor.ActorSystem, opts ...ProbeOption) *Probe {
	t.Helper()

	probe := &Probe{
		pt:         t,
		ctx:        ctx,
		system:     system,
		messages:   make(chan message, MessagesQueueMax),
		lastSender: address.NoSender(),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(probe)
	}

	addr, err := system.ActorOf(ctx, "probe-"+uuid.NewString(), func() actor.Actor {
		return &probeActor{messages: probe.messages}
	})
	require.NoError(t, err)

	probe.address = addr
	return probe
}

// ExpectMessage asserts that the next message received equals expected and returns it
func (x *Probe) ExpectMessage(expected any) any {
	x.pt.Helper()
	return x.expectMessage(x.timeout, expected)
}

// ExpectMessageWithin asserts that the next message received within duration equals expected
func (x *Probe) ExpectMessageWithin(duration time.Duration, expected any) any {
	x.pt.Helper()
	return x.expectMessage(duration, expected)
}

// ExpectAnyMessage asserts that a message is received and returns it
func (x *Probe) ExpectAnyMessage() any {
	x.pt.Helper()
	return x.expectAnyMessage(x.timeout)
}

// ExpectAnyMessageWithin asserts that a message is received within duration
func (x *Probe) ExpectAnyMessageWithin(duration time.Duration) any {
	x.pt.Helper()
	return x.expectAnyMessage(duration)
}

// ExpectNoMessage asserts that nothing is received during QuietPeriod
func (x *Probe) ExpectNoMessage() {
	x.pt.Helper()
	received, ok := x.receiveOne(QuietPeriod)
	require.False(x.pt, ok, fmt.Sprintf("received unexpected message %v", received))
}

// Send tells body to the actor at to with the probe as sender
func (x *Probe) Send(to address.Address, body any) {
	x.pt.Helper()
	require.NoError(x.pt, x.system.Tell(x.ctx, actor.NewMessage(body, to, actor.WithSender(x.address))))
}

// Sender returns the sender of the last received message
func (x *Probe) Sender() address.Address {
	return x.lastSender
}

// Address returns the address of the probe actor
func (x *Probe) Address() address.Address {
	return x.address
}

// Stop stops the probe actor
func (x *Probe) Stop() {
	x.pt.Helper()
	require.NoError(x.pt, x.system.StopActor(x.ctx, x.address))
}

// ExpectMessageOf asserts that the next message received is a T and returns it
func ExpectMessageOf[T any](probe *Probe) T {
	probe.pt.Helper()
	received := probe.expectAnyMessage(probe.timeout)
	typed, ok := received.(T)
	require.True(probe.pt, ok, fmt.Sprintf("expected %v, found %T", reflect.TypeFor[T](), received))
	return typed
}

// receiveOne waits at most max for a message
func (x *Probe) receiveOne(max time.Duration) (any, bool) {
	timer := time.NewTimer(max)
	defer timer.Stop()

	select {
	case m := <-x.messages:
		x.lastSender = m.sender
		return m.body, true
	case <-timer.C:
		return nil, false
	}
}

func (x *Probe) expectMessage(max time.Duration, expected any) any {
	x.pt.Helper()
	received, ok := x.receiveOne(max)
	require.True(x.pt, ok, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %v", max, expected))
	require.Equal(x.pt, expected, received, fmt.Sprintf("expected %v, found %v", expected, received))
	return received
}

func (x *Probe) expectAnyMessage(max time.Duration) any {
	x.pt.Helper()
	received, ok := x.receiveOne(max)
	require.True(x.pt, ok, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}
