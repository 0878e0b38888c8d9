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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewave/courier/address"
	"github.com/tidewave/courier/errors"
)

func TestUnboundedMailbox(t *testing.T) {
	to := address.New("test", "mailbox")

	t.Run("With FIFO order", func(t *testing.T) {
		mailbox := NewUnboundedMailbox()
		require.True(t, mailbox.IsEmpty())
		for i := range 10 {
			require.NoError(t, mailbox.Enqueue(NewMessage(i, to)))
		}
		assert.EqualValues(t, 10, mailbox.Len())
		for i := range 10 {
			assert.Equal(t, i, mailbox.Dequeue().Body())
		}
		assert.Nil(t, mailbox.Dequeue())
	})

	t.Run("With concurrent producers", func(t *testing.T) {
		mailbox := NewUnboundedMailbox()
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					_ = mailbox.Enqueue(NewMessage(i, to))
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1000, mailbox.Len())
	})

	t.Run("With Dispose", func(t *testing.T) {
		mailbox := NewUnboundedMailbox()
		require.NoError(t, mailbox.Enqueue(NewMessage(1, to)))
		mailbox.Dispose()
		assert.ErrorIs(t, mailbox.Enqueue(NewMessage(2, to)), errors.ErrMailboxDisposed)
		assert.Nil(t, mailbox.Dequeue())
		assert.True(t, mailbox.IsEmpty())
	})
}

func TestBoundedMailbox(t *testing.T) {
	to := address.New("test", "mailbox")

	t.Run("With full mailbox", func(t *testing.T) {
		mailbox := NewBoundedMailbox(2)
		require.NoError(t, mailbox.Enqueue(NewMessage(1, to)))
		require.NoError(t, mailbox.Enqueue(NewMessage(2, to)))
		assert.ErrorIs(t, mailbox.Enqueue(NewMessage(3, to)), errors.ErrMailboxFull)
		assert.EqualValues(t, 2, mailbox.Len())

		assert.Equal(t, 1, mailbox.Dequeue().Body())
		require.NoError(t, mailbox.Enqueue(NewMessage(3, to)))
		assert.Equal(t, 2, mailbox.Dequeue().Body())
		assert.Equal(t, 3, mailbox.Dequeue().Body())
		assert.Nil(t, mailbox.Dequeue())
		assert.True(t, mailbox.IsEmpty())
	})

	t.Run("With Dispose", func(t *testing.T) {
		mailbox := NewBoundedMailbox(0)
		mailbox.Dispose()
		assert.ErrorIs(t, mailbox.Enqueue(NewMessage(1, to)), errors.ErrMailboxDisposed)
		assert.Nil(t, mailbox.Dequeue())
	})
}
