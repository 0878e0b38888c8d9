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

// Package workerpool provides a sharded pool of reusable goroutines.
//
// Workers are spawned on demand, parked in their shard when idle and
// reaped once they stayed idle longer than the configured timeout.
package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const maxShards = 128

// ErrNotRunning is returned when submitting work to a pool that is not started or already stopped
var ErrNotRunning = errors.New("worker pool is not running")

// WorkerPool distributes tasks to goroutines across shards
type WorkerPool struct {
	idleTimeout time.Duration
	numShards   int
	shards      []*shard
	next        atomic.Uint32

	mu      sync.RWMutex
	started atomic.Bool
	stopped atomic.Bool
	done    chan struct{}

	spawned atomic.Int64
	workers sync.WaitGroup
}

type worker struct {
	tasks    chan func()
	shard    *shard
	lastUsed atomic.Int64
}

// shard keeps its idle workers ordered from the least to the most recently used
type shard struct {
	pool    *WorkerPool
	mu      sync.Mutex
	idle    []*worker
	stopped bool
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	pool := &WorkerPool{
		idleTimeout: time.Second,
		numShards:   runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt.Apply(pool)
	}

	if pool.numShards < 1 {
		pool.numShards = 1
	} else if pool.numShards > maxShards {
		pool.numShards = maxShards
	}

	if pool.idleTimeout <= 0 {
		pool.idleTimeout = time.Second
	}

	return pool
}

// Start allocates the shards and launches the idle worker reaper.
// Calling Start more than once has no effect.
func (pool *WorkerPool) Start() {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	if pool.started.Load() {
		return
	}

	pool.shards = make([]*shard, pool.numShards)
	for i := range pool.shards {
		pool.shards[i] = &shard{pool: pool, idle: make([]*worker, 0, 64)}
	}

	pool.done = make(chan struct{})
	pool.started.Store(true)
	go pool.reap()
}

// Stop prevents new submissions, releases idle workers and waits for
// running tasks to return.
func (pool *WorkerPool) Stop() {
	pool.mu.Lock()
	if !pool.started.Load() || pool.stopped.Swap(true) {
		pool.mu.Unlock()
		return
	}

	close(pool.done)
	for _, s := range pool.shards {
		s.mu.Lock()
		s.stopped = true
		for i, w := range s.idle {
			close(w.tasks)
			s.idle[i] = nil
		}
		s.idle = s.idle[:0]
		s.mu.Unlock()
	}
	pool.mu.Unlock()

	pool.workers.Wait()
}

// SubmitWork hands task to an idle worker or a new one.
// It returns ErrNotRunning when the pool is not accepting work.
func (pool *WorkerPool) SubmitWork(task func()) error {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	if !pool.started.Load() || pool.stopped.Load() {
		return ErrNotRunning
	}

	index := pool.next.Add(1) % uint32(len(pool.shards))
	return pool.shards[index].dispatch(task)
}

// SpawnedWorkers returns the number of live workers.
func (pool *WorkerPool) SpawnedWorkers() int {
	return int(pool.spawned.Load())
}

func (s *shard) dispatch(task func()) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrNotRunning
	}

	if n := len(s.idle); n > 0 {
		w := s.idle[n-1]
		s.idle[n-1] = nil
		s.idle = s.idle[:n-1]
		s.mu.Unlock()
		w.tasks <- task
		return nil
	}
	s.mu.Unlock()

	w := &worker{tasks: make(chan func()), shard: s}
	s.pool.workers.Add(1)
	s.pool.spawned.Add(1)
	go w.run()
	w.tasks <- task
	return nil
}

// park returns the worker to the idle list. It returns false once the shard is stopped.
func (s *shard) park(w *worker) bool {
	w.lastUsed.Store(time.Now().UnixNano())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.idle = append(s.idle, w)
	return true
}

func (w *worker) run() {
	defer func() {
		w.shard.pool.spawned.Add(-1)
		w.shard.pool.workers.Done()
	}()

	for task := range w.tasks {
		task()
		if !w.shard.park(w) {
			return
		}
	}
}

func (pool *WorkerPool) reap() {
	ticker := time.NewTicker(pool.idleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-pool.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-pool.idleTimeout).UnixNano()
			for _, s := range pool.shards {
				s.expire(cutoff)
			}
		}
	}
}

func (s *shard) expire(cutoff int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	expired := 0
	for expired < len(s.idle) && s.idle[expired].lastUsed.Load() < cutoff {
		close(s.idle[expired].tasks)
		expired++
	}

	if expired > 0 {
		remaining := copy(s.idle, s.idle[expired:])
		clear(s.idle[remaining:])
		s.idle = s.idle[:remaining]
	}
}
