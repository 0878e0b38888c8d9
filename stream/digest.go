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
	"github.com/zeebo/xxh3"
)

// DigestDestination computes the xxh3 checksum of the bytes written to the
// destination it decorates
type DigestDestination struct {
	Destination[BinaryChunk]
	hasher *xxh3.Hasher
}

var _ Destination[BinaryChunk] = (*DigestDestination)(nil)

// NewDigestDestination decorates destination
func NewDigestDestination(destination Destination[BinaryChunk]) *DigestDestination {
	return &DigestDestination{Destination: destination, hasher: xxh3.New()}
}

// Write hashes data then hands it to the decorated destination
func (d *DigestDestination) Write(conn Connection[BinaryChunk], data BinaryChunk, size int) error {
	_, _ = d.hasher.Write(data.Bytes())
	return d.Destination.Write(conn, data, size)
}

// Sum64 returns the checksum of the bytes written so far
func (d *DigestDestination) Sum64() uint64 {
	return d.hasher.Sum64()
}
