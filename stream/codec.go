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
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec compresses the bytes written to a destination and decompresses the
// bytes read from a source
type Codec interface {
	// Name returns the content coding of the codec
	Name() string
	NewReader(r io.Reader) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

var (
	// None leaves the bytes untouched
	None Codec = noneCodec{}
	// Zstd is the Zstandard codec
	Zstd Codec = &zstdCodec{}
	// Gzip is the gzip codec
	Gzip Codec = gzipCodec{}
	// Brotli is the brotli codec
	Brotli Codec = brotliCodec{}
)

type noneCodec struct{}

func (noneCodec) Name() string { return "identity" }

func (noneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (noneCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// zstdCodec pools its encoders, they are expensive to create
type zstdCodec struct {
	encoders sync.Pool
}

func (*zstdCodec) Name() string { return "zstd" }

func (*zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (z *zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	if encoder, ok := z.encoders.Get().(*zstd.Encoder); ok && encoder != nil {
		encoder.Reset(w)
		return &zstdWriter{Encoder: encoder, pool: &z.encoders}, nil
	}

	encoder, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return nil, err
	}
	return &zstdWriter{Encoder: encoder, pool: &z.encoders}, nil
}

type zstdWriter struct {
	*zstd.Encoder
	pool *sync.Pool
}

// Close flushes the frame and hands the encoder back to the pool
func (w *zstdWriter) Close() error {
	err := w.Encoder.Close()
	w.Encoder.Reset(nil)
	w.pool.Put(w.Encoder)
	return err
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return "gzip" }

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

type brotliCodec struct{}

func (brotliCodec) Name() string { return "br" }

func (brotliCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func (brotliCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
}

// LookupCodec returns the codec registered under name. Both the content
// coding and the short names none, zstd, gzip and brotli are accepted.
func LookupCodec(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "", "none", None.Name():
		return None, true
	case Zstd.Name():
		return Zstd, true
	case Gzip.Name(), "gz":
		return Gzip, true
	case Brotli.Name(), "brotli":
		return Brotli, true
	default:
		return nil, false
	}
}
