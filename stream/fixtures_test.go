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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/actor"
	"github.com/tidewave/courier/log"
)

var errBoom = errors.New("boom")

// release records how an endpoint was released
type release struct {
	count atomic.Int32
	mu    sync.Mutex
	cause error
}

func (r *release) Release(cause error) error {
	r.count.Inc()
	r.mu.Lock()
	r.cause = cause
	r.mu.Unlock()
	return nil
}

func (r *release) lastCause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cause
}

// sliceSource submits its chunks one per Read
type sliceSource struct {
	release
	chunks  []BinaryChunk
	reads   atomic.Int32
	failAt  int
	readErr error
}

func newSliceSource(chunks ...string) *sliceSource {
	source := &sliceSource{failAt: -1}
	for _, chunk := range chunks {
		source.chunks = append(source.chunks, NewChunk([]byte(chunk)))
	}
	return source
}

func (s *sliceSource) Read(conn Connection[BinaryChunk]) error {
	index := int(s.reads.Inc()) - 1
	if index == s.failAt {
		return s.readErr
	}
	if index >= len(s.chunks) {
		return conn.Complete()
	}
	chunk := s.chunks[index]
	return conn.Submit(chunk, chunk.Len())
}

// sliceDestination keeps the chunks it receives, acknowledging them
// asynchronously after delay when set
type sliceDestination struct {
	release
	mu      sync.Mutex
	written []string
	delay   time.Duration
	failAt  int
	onWrite func()
}

func newSliceDestination() *sliceDestination {
	return &sliceDestination{failAt: -1}
}

func (d *sliceDestination) Write(conn Connection[BinaryChunk], data BinaryChunk, _ int) error {
	if d.onWrite != nil {
		d.onWrite()
	}

	d.mu.Lock()
	index := len(d.written)
	if index == d.failAt {
		d.mu.Unlock()
		return errBoom
	}
	d.written = append(d.written, string(data.Bytes()))
	d.mu.Unlock()

	if d.delay == 0 {
		return conn.Receive()
	}

	go func() {
		time.Sleep(d.delay)
		_ = conn.Receive()
	}()
	return nil
}

func (d *sliceDestination) chunks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.written...)
}

func newStreamer(t *testing.T) (*Streamer, actor.ActorSystem) {
	t.Helper()
	ctx := context.Background()
	system, err := actor.NewActorSystem("streams", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() {
		if system.Running() {
			_ = system.Stop(ctx)
		}
	})
	return NewStreamer(system), system
}
