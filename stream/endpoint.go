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

// Source produces the data of a stream, one chunk per Read.
//
// Read is called once when the stream starts and once after every chunk the
// destination acknowledged. It answers through conn, now or later, with
// exactly one of Submit, Complete or Fail.
type Source[T Data] interface {
	Read(conn Connection[T]) error
	// Release frees the source. cause is nil when the stream completed.
	Release(cause error) error
}

// Destination consumes the data of a stream.
//
// Write persists data then acknowledges it with conn.Receive, now or later.
// The next chunk is not read before the acknowledgement.
type Destination[T Data] interface {
	Write(conn Connection[T], data T, size int) error
	// Release frees the destination. cause is nil when the stream completed.
	Release(cause error) error
}
