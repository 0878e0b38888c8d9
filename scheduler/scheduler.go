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

// Package scheduler runs single-shot delayed tasks that can be cancelled.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/log"
)

// Scheduler wraps a quartz scheduler with run-once triggers
type Scheduler struct {
	mu          sync.Mutex
	quartz      quartz.Scheduler
	started     *atomic.Bool
	logger      log.Logger
	stopTimeout time.Duration
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithStopTimeout bounds how long Stop waits for running tasks
func WithStopTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		s.stopTimeout = timeout
	}
}

// New creates an instance of Scheduler
func New(logger log.Logger, opts ...Option) (*Scheduler, error) {
	// quartz logs through its own facade, keep it quiet
	qs, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.DiscardLogger
	}

	scheduler := &Scheduler{
		quartz:      qs,
		started:     atomic.NewBool(false),
		logger:      logger,
		stopTimeout: 3 * time.Second,
	}

	for _, opt := range opts {
		opt(scheduler)
	}
	return scheduler, nil
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.Load() {
		return
	}

	s.quartz.Start(ctx)
	s.started.Store(s.quartz.IsStarted())
	s.logger.Debug("scheduler started")
}

// Stop discards pending tasks and waits for the running ones
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started.Load() {
		s.mu.Unlock()
		return
	}

	_ = s.quartz.Clear()
	s.quartz.Stop()
	s.started.Store(false)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.stopTimeout)
	defer cancel()
	s.quartz.Wait(ctx)
	s.logger.Debug("scheduler stopped")
}

// IsStarted reports whether the scheduler accepts tasks
func (s *Scheduler) IsStarted() bool {
	return s.started.Load()
}

// ScheduleOnce runs task once after delay.
// The returned Cancellable prevents the run when cancelled first.
func (s *Scheduler) ScheduleOnce(delay time.Duration, task func(ctx context.Context)) (*Cancellable, error) {
	if delay <= 0 {
		return nil, errors.ErrInvalidTimeout
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.Load() {
		return nil, errors.ErrSchedulerNotStarted
	}

	cancellable := &Cancellable{
		key:       quartz.NewJobKey(uuid.NewString()),
		scheduler: s,
	}

	fn := job.NewFunctionJob[bool](func(ctx context.Context) (bool, error) {
		if !cancellable.state.CompareAndSwap(pending, fired) {
			return false, nil
		}
		task(ctx)
		return true, nil
	})

	if err := s.quartz.ScheduleJob(quartz.NewJobDetail(fn, cancellable.key), quartz.NewRunOnceTrigger(delay)); err != nil {
		return nil, err
	}
	return cancellable, nil
}

func (s *Scheduler) remove(key *quartz.JobKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.Load() {
		// the job may already be gone once it fired
		_ = s.quartz.DeleteJob(key)
	}
}
