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

package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewave/courier/errors"
)

func TestAddress(t *testing.T) {
	t.Run("With canonical form", func(t *testing.T) {
		addr := New("files", "transmitter-1")
		assert.Equal(t, "urn:courier:files:transmitter-1", addr.String())
		assert.Equal(t, "files", addr.System())
		assert.Equal(t, "transmitter-1", addr.Name())
		require.NoError(t, addr.Validate())

		parsed, err := Parse(addr.String())
		require.NoError(t, err)
		assert.True(t, parsed.Equals(addr))
		assert.True(t, parsed == addr)
	})

	t.Run("With no sender", func(t *testing.T) {
		assert.True(t, NoSender().IsZero())
		assert.Empty(t, NoSender().String())
		assert.NoError(t, NoSender().Validate())
		assert.False(t, New("files", "a").IsZero())
	})

	t.Run("With usage as map key", func(t *testing.T) {
		seen := map[Address]int{}
		seen[New("files", "a")]++
		seen[New("files", "a")]++
		seen[New("files", "b")]++
		assert.Len(t, seen, 2)
	})

	t.Run("With invalid names", func(t *testing.T) {
		assert.ErrorIs(t, New("files", "").Validate(), errors.ErrInvalidActorName)
		assert.ErrorIs(t, New("files", "bad name").Validate(), errors.ErrInvalidActorName)
		assert.ErrorIs(t, New("files", strings.Repeat("a", 256)).Validate(), errors.ErrInvalidActorName)
		assert.ErrorIs(t, New("files.eu", "a").Validate(), errors.ErrInvalidActorSystemName)
		assert.ErrorIs(t, New("", "a").Validate(), errors.ErrInvalidActorSystemName)
	})

	t.Run("With invalid canonical forms", func(t *testing.T) {
		_, err := Parse("tcp://files@host:9000/a")
		assert.Error(t, err)
		_, err = Parse("urn:courier:files")
		assert.Error(t, err)
		_, err = Parse("urn:courier:files:$bad")
		assert.ErrorIs(t, err, errors.ErrInvalidActorName)
	})
}
