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

// Package stream moves chunked data from a Source to a Destination.
//
// Each stream is driven by a transmitter actor. The source is only asked for
// the next chunk once the destination acknowledged the previous one, so a
// slow destination paces the whole transfer. The outcome is a Promise of the
// transfer Stat.
package stream

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/future"
)

// Streamer creates streams running in an actor system
type Streamer struct {
	system actor.ActorSystem
	name   string
}

// NewStreamer creates an instance of Streamer
func NewStreamer(system actor.ActorSystem, opts ...Option) *Streamer {
	streamer := &Streamer{
		system: system,
		name:   "stream",
	}
	for _, opt := range opts {
		opt.Apply(streamer)
	}
	return streamer
}

// Stream is a transfer from a source to a destination
type Stream[T Data] struct {
	id          string
	streamer    *Streamer
	source      Source[T]
	destination Destination[T]
	started     atomic.Bool
}

// CreateStream binds source to destination. Nothing moves before Start.
func CreateStream[T Data](streamer *Streamer, source Source[T], destination Destination[T]) *Stream[T] {
	return &Stream[T]{
		id:          uuid.NewString(),
		streamer:    streamer,
		source:      source,
		destination: destination,
	}
}

// ID identifies the stream
func (s *Stream[T]) ID() string {
	return s.id
}

// Start spawns the transmitter and returns the outcome of the transfer.
// A stream starts once: later calls return a promise rejected with ErrStreamAlreadyStarted.
func (s *Stream[T]) Start(ctx context.Context) *future.Promise[Stat] {
	if !s.started.CompareAndSwap(false, true) {
		return future.Rejected[Stat](errors.ErrStreamAlreadyStarted)
	}

	system := s.streamer.system
	deferred := future.NewDeferred[Stat]()
	name := fmt.Sprintf("%s-%s", s.streamer.name, s.id)
	transmitter := &transmitter[T]{
		source:      s.source,
		destination: s.destination,
		deferred:    deferred,
	}

	addr, err := system.ActorOf(ctx, name, func() actor.Actor { return transmitter })
	if err != nil {
		transmitter.fail(err)
		return deferred.Promise()
	}

	transmitter.conn = &connection[T]{ctx: ctx, system: system, transmitter: addr}
	if err := system.Tell(ctx, actor.NewMessage(new(startCommand), addr)); err != nil {
		// PostStop releases the endpoints and rejects the promise
		_ = system.StopActor(context.WithoutCancel(ctx), addr)
	}
	return deferred.Promise()
}
