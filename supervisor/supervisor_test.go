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

package supervisor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	gerrors "github.com/tidewave/courier/errors"
)

type diskFullError struct{}

func (diskFullError) Error() string { return "disk full" }

func TestDecide(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		s := NewSupervisor()
		assert.Equal(t, ResumeDirective, s.Decide(errors.New("boom")))
		assert.Equal(t, ResumeDirective, s.Decide(gerrors.PanicErrorFrom("boom")))
		assert.Equal(t, ResumeDirective, s.Decide(nil))
	})

	t.Run("With a type rule", func(t *testing.T) {
		s := NewSupervisor(
			WithDirective(new(gerrors.TimeoutError), StopDirective),
			WithDirective(diskFullError{}, EscalateDirective),
		)
		assert.Equal(t, StopDirective, s.Decide(gerrors.NewTimeoutError(time.Second)))
		assert.Equal(t, EscalateDirective, s.Decide(diskFullError{}))
		assert.Equal(t, ResumeDirective, s.Decide(errors.New("other")))
	})

	t.Run("With a wrapped error", func(t *testing.T) {
		s := NewSupervisor(WithDirective(diskFullError{}, StopDirective))
		wrapped := fmt.Errorf("write chunk: %w", diskFullError{})
		assert.Equal(t, StopDirective, s.Decide(wrapped))
		assert.Equal(t, StopDirective, s.Decide(gerrors.NewPanicError(wrapped)))
		assert.Equal(t, StopDirective, s.Decide(errors.Join(errors.New("a"), wrapped)))
	})

	t.Run("With any error and fallback", func(t *testing.T) {
		s := NewSupervisor(
			WithDirective(diskFullError{}, EscalateDirective),
			WithAnyErrorDirective(StopDirective),
			WithDefaultDirective(EscalateDirective),
		)
		assert.Equal(t, EscalateDirective, s.Decide(diskFullError{}))
		assert.Equal(t, StopDirective, s.Decide(errors.New("other")))

		fallback := NewSupervisor(WithDefaultDirective(StopDirective)).Decider()
		assert.Equal(t, StopDirective, fallback(errors.New("other")))
	})
}

func TestDirectiveString(t *testing.T) {
	assert.Equal(t, "Resume", ResumeDirective.String())
	assert.Equal(t, "Stop", StopDirective.String())
	assert.Equal(t, "Escalate", EscalateDirective.String())
	assert.Empty(t, Directive(42).String())
}
