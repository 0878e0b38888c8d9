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

// Data is what a stream transfers. An empty value marks the end of the data.
type Data interface {
	IsEmpty() bool
}

// BinaryChunk is an immutable slice of bytes
type BinaryChunk struct {
	data []byte
}

var _ Data = BinaryChunk{}

// EmptyChunk signals the end of a binary stream
var EmptyChunk = BinaryChunk{}

// NewChunk creates a BinaryChunk holding a copy of b
func NewChunk(b []byte) BinaryChunk {
	if len(b) == 0 {
		return EmptyChunk
	}
	data := make([]byte, len(b))
	copy(data, b)
	return BinaryChunk{data: data}
}

// Bytes returns the content of the chunk. It must not be modified.
func (c BinaryChunk) Bytes() []byte {
	return c.data
}

// Len returns the number of bytes in the chunk
func (c BinaryChunk) Len() int {
	return len(c.data)
}

// IsEmpty reports whether the chunk holds no byte
func (c BinaryChunk) IsEmpty() bool {
	return len(c.data) == 0
}
