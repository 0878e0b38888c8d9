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

package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeMismatchError(t *testing.T) {
	err := NewTypeMismatchError("string", 42)
	assert.Equal(t, "type mismatch: expected string, got int", err.Error())

	var target *TypeMismatchError
	wrapped := fmt.Errorf("receive: %w", err)
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "int", target.Actual)
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrRequestTimeout)
	assert.Equal(t, "request timed out after 50ms", err.Error())
	assert.NotErrorIs(t, err, ErrDead)
}

func TestPanicError(t *testing.T) {
	t.Run("from an error", func(t *testing.T) {
		cause := errors.New("boom")
		err := PanicErrorFrom(cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "panic: boom", err.Error())
	})
	t.Run("from any value", func(t *testing.T) {
		err := PanicErrorFrom(7)
		assert.Equal(t, "panic: 7", err.Error())
	})
}

func TestInitError(t *testing.T) {
	cause := errors.New("no database")
	err := NewInitError(cause)
	assert.ErrorIs(t, err, ErrInitFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "preStart failed: no database", err.Error())
}

func TestProtocolError(t *testing.T) {
	err := NewProtocolError("Submit", "Complete")
	assert.Equal(t, "protocol violation: Complete is not allowed in state Submit", err.Error())
	assert.Equal(t, "*", new(AnyError).Error())
}
