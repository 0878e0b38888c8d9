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
	"sync"
	"time"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/scheduler"
)

// TimeoutSupervisor bounds a wait with a single cancellable deadline.
// When the deadline passes it sends TimedOut, tagged with the supervised
// correlation key, to the supervised actor.
type TimeoutSupervisor struct {
	system ActorSystem
	mu     sync.Mutex
	timer  *scheduler.Cancellable
}

// NewTimeoutSupervisor creates a TimeoutSupervisor
func NewTimeoutSupervisor(system ActorSystem) *TimeoutSupervisor {
	return &TimeoutSupervisor{system: system}
}

// Supervise arms the deadline, replacing any previous one
func (t *TimeoutSupervisor) Supervise(self address.Address, key CorrelationKey, after time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Cancel()
	}

	timer, err := t.system.ScheduleOnce(after, func(ctx context.Context) {
		// the actor may be gone already
		_ = t.system.Tell(ctx, NewMessage(&TimedOut{After: after}, self, WithCorrelationKey(key)))
	})
	if err != nil {
		return err
	}
	t.timer = timer
	return nil
}

// Cancel disarms the deadline. It returns false when there is nothing to
// cancel, including when the deadline already fired.
func (t *TimeoutSupervisor) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	cancelled := t.timer.Cancel()
	t.timer = nil
	return cancelled
}
