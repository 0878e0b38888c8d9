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
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tidewave/courier/internal/bufferpool"
	"github.com/tidewave/courier/internal/errorschain"
)

// DefaultChunkSize is the size of the chunks read by a ReaderSource
const DefaultChunkSize = 32 * 1024

// read buffers of the default size are recycled across sources
var defaultBuffers = bufferpool.New(DefaultChunkSize)

// EndpointOption configures the binary endpoints
type EndpointOption func(*endpointConfig)

type endpointConfig struct {
	chunkSize int
	codec     Codec
}

func newEndpointConfig(opts ...EndpointOption) *endpointConfig {
	config := &endpointConfig{
		chunkSize: DefaultChunkSize,
		codec:     None,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithChunkSize sets the maximum size of the chunks read by a source
func WithChunkSize(size int) EndpointOption {
	return func(c *endpointConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithCodec decompresses what a source reads or compresses what a destination writes
func WithCodec(codec Codec) EndpointOption {
	return func(c *endpointConfig) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// ReaderSource reads binary chunks from an io.Reader
type ReaderSource struct {
	underlying io.Reader
	reader     io.ReadCloser
	buffer     *[]byte
}

var _ Source[BinaryChunk] = (*ReaderSource)(nil)

// NewReaderSource creates a ReaderSource. The reader is closed on release
// when it is an io.Closer.
func NewReaderSource(r io.Reader, opts ...EndpointOption) (*ReaderSource, error) {
	config := newEndpointConfig(opts...)
	reader, err := config.codec.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create the %s reader: %w", config.codec.Name(), err)
	}

	var buffer *[]byte
	if config.chunkSize == defaultBuffers.Size() {
		buffer = defaultBuffers.Get()
	} else {
		raw := make([]byte, config.chunkSize)
		buffer = &raw
	}

	return &ReaderSource{
		underlying: r,
		reader:     reader,
		buffer:     buffer,
	}, nil
}

// OpenFileSource reads the file at path
func OpenFileSource(path string, opts ...EndpointOption) (*ReaderSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	source, err := NewReaderSource(file, opts...)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return source, nil
}

// Read submits the next chunk or completes at the end of the reader
func (s *ReaderSource) Read(conn Connection[BinaryChunk]) error {
	n, err := io.ReadFull(s.reader, *s.buffer)
	switch {
	case n > 0 && (err == nil || stderrors.Is(err, io.ErrUnexpectedEOF)):
		return conn.Submit(NewChunk((*s.buffer)[:n]), n)
	case err == nil, stderrors.Is(err, io.EOF):
		return conn.Complete()
	default:
		return err
	}
}

// Release closes the reader
func (s *ReaderSource) Release(error) error {
	defaultBuffers.Put(s.buffer)
	s.buffer = nil
	chain := errorschain.New(errorschain.ReturnAll()).AddErrorFn(s.reader.Close)
	if closer, ok := s.underlying.(io.Closer); ok {
		chain.AddErrorFn(closer.Close)
	}
	return chain.Error()
}

// WriterDestination writes binary chunks to an io.Writer
type WriterDestination struct {
	underlying io.Writer
	writer     io.WriteCloser
}

var _ Destination[BinaryChunk] = (*WriterDestination)(nil)

// NewWriterDestination creates a WriterDestination. The writer is closed on
// release when it is an io.Closer.
func NewWriterDestination(w io.Writer, opts ...EndpointOption) (*WriterDestination, error) {
	config := newEndpointConfig(opts...)
	writer, err := config.codec.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create the %s writer: %w", config.codec.Name(), err)
	}
	return &WriterDestination{underlying: w, writer: writer}, nil
}

// Write writes data and acknowledges it
func (d *WriterDestination) Write(conn Connection[BinaryChunk], data BinaryChunk, _ int) error {
	if _, err := d.writer.Write(data.Bytes()); err != nil {
		return err
	}
	return conn.Receive()
}

// Release flushes the codec and closes the writer
func (d *WriterDestination) Release(error) error {
	chain := errorschain.New(errorschain.ReturnAll()).AddErrorFn(d.writer.Close)
	if closer, ok := d.underlying.(io.Closer); ok {
		chain.AddErrorFn(closer.Close)
	}
	return chain.Error()
}

// FileDestination writes to a temporary file renamed to its final path once
// the stream completes. A failed stream leaves nothing behind.
type FileDestination struct {
	*WriterDestination
	file *os.File
	path string
}

var _ Destination[BinaryChunk] = (*FileDestination)(nil)

// CreateFileDestination prepares a destination for path
func CreateFileDestination(path string, opts ...EndpointOption) (*FileDestination, error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return nil, err
	}

	writer, err := NewWriterDestination(file, opts...)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return nil, err
	}
	return &FileDestination{WriterDestination: writer, file: file, path: path}, nil
}

// Path returns the final path of the file
func (d *FileDestination) Path() string {
	return d.path
}

// Release moves the file to its final path on success and removes it on failure
func (d *FileDestination) Release(cause error) error {
	if err := d.WriterDestination.Release(cause); err != nil || cause != nil {
		return errorschain.New(errorschain.ReturnAll()).
			AddError(err).
			AddErrorFn(func() error { return os.Remove(d.file.Name()) }).
			Error()
	}
	return os.Rename(d.file.Name(), d.path)
}
