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
	"bytes"
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
	bolt "go.etcd.io/bbolt"

	"github.com/tidewave/courier/errors"
)

func randomBytes(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	return data
}

func TestRechargeableSource(t *testing.T) {
	ctx := context.Background()

	t.Run("With sources read in order", func(t *testing.T) {
		streamer, _ := newStreamer(t)
		first := newSliceSource("a", "b")
		second := newSliceSource()
		third := newSliceSource("c")

		source := NewRechargeableSource[BinaryChunk](first, second)
		require.NoError(t, source.Recharge(third))
		assert.Equal(t, 3, source.Pending())

		destination := newSliceDestination()
		stat, err := CreateStream[BinaryChunk](streamer, source, destination).Start(ctx).Await(ctx)
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b", "c"}, destination.chunks())
		assert.EqualValues(t, 3, stat.Written)
		for _, inner := range []*sliceSource{first, second, third} {
			assert.EqualValues(t, 1, inner.count.Load())
			assert.NoError(t, inner.lastCause())
		}
		assert.Zero(t, source.Pending())
	})

	t.Run("With failure", func(t *testing.T) {
		streamer, _ := newStreamer(t)
		first := newSliceSource("a")
		second := newSliceSource("b")
		queued := newSliceSource("c")
		source := NewRechargeableSource[BinaryChunk](first, second, queued)

		destination := newSliceDestination()
		destination.failAt = 1

		_, err := CreateStream[BinaryChunk](streamer, source, destination).Start(ctx).Await(ctx)
		assert.ErrorIs(t, err, errBoom)

		assert.NoError(t, first.lastCause())
		assert.ErrorIs(t, second.lastCause(), errBoom)
		assert.ErrorIs(t, queued.lastCause(), errBoom)
		for _, inner := range []*sliceSource{first, second, queued} {
			assert.EqualValues(t, 1, inner.count.Load())
		}
	})

	t.Run("With recharge after release", func(t *testing.T) {
		source := NewRechargeableSource[BinaryChunk]()
		require.NoError(t, source.Release(nil))
		assert.NoError(t, source.Release(nil))

		late := newSliceSource("late")
		assert.ErrorIs(t, source.Recharge(late), errors.ErrSourceReleased)
		assert.Zero(t, late.count.Load())
	})
}

func TestCodecs(t *testing.T) {
	ctx := context.Background()
	data := append(randomBytes(t, 64*1024), bytes.Repeat([]byte("courier"), 4096)...)

	for _, codec := range []Codec{None, Zstd, Gzip, Brotli} {
		t.Run(codec.Name(), func(t *testing.T) {
			streamer, _ := newStreamer(t)
			dir := t.TempDir()
			plain := filepath.Join(dir, "plain")
			packed := filepath.Join(dir, "packed")
			restored := filepath.Join(dir, "restored")
			require.NoError(t, os.WriteFile(plain, data, 0o600))

			copyFile(ctx, t, streamer, plain, packed, nil, []EndpointOption{WithCodec(codec)})
			stat := copyFile(ctx, t, streamer, packed, restored, []EndpointOption{WithCodec(codec), WithChunkSize(4096)}, nil)

			actual, err := os.ReadFile(restored)
			require.NoError(t, err)
			assert.Equal(t, data, actual)
			assert.EqualValues(t, len(data), stat.Bytes)
			assert.EqualValues(t, (len(data)+4095)/4096, stat.Chunks)
		})
	}
}

func copyFile(ctx context.Context, t *testing.T, streamer *Streamer, from, to string, readOpts, writeOpts []EndpointOption) Stat {
	t.Helper()
	source, err := OpenFileSource(from, readOpts...)
	require.NoError(t, err)
	destination, err := CreateFileDestination(to, writeOpts...)
	require.NoError(t, err)
	assert.Equal(t, to, destination.Path())

	stat, err := CreateStream[BinaryChunk](streamer, source, destination).Start(ctx).Await(ctx)
	require.NoError(t, err)
	return stat
}

func TestFileDestination(t *testing.T) {
	ctx := context.Background()

	t.Run("With failed stream", func(t *testing.T) {
		streamer, _ := newStreamer(t)
		dir := t.TempDir()
		target := filepath.Join(dir, "target")

		destination, err := CreateFileDestination(target)
		require.NoError(t, err)

		source := newSliceSource("a", "b")
		source.failAt = 1
		source.readErr = errBoom

		_, err = CreateStream[BinaryChunk](streamer, source, destination).Start(ctx).Await(ctx)
		assert.ErrorIs(t, err, errBoom)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("With missing directory", func(t *testing.T) {
		_, err := CreateFileDestination(filepath.Join(t.TempDir(), "missing", "target"))
		assert.Error(t, err)
	})

	t.Run("With missing source file", func(t *testing.T) {
		_, err := OpenFileSource(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBoltEndpoints(t *testing.T) {
	ctx := context.Background()
	streamer, _ := newStreamer(t)

	db, err := bolt.Open(filepath.Join(t.TempDir(), "chunks.db"), 0o600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	data := randomBytes(t, 10_000)

	source, err := NewReaderSource(bytes.NewReader(data), WithChunkSize(1024))
	require.NoError(t, err)
	stat, err := CreateStream[BinaryChunk](streamer, source, NewBoltDestination(db, "upload")).Start(ctx).Await(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, stat.Chunks)

	var buffer bytes.Buffer
	destination, err := NewWriterDestination(&buffer)
	require.NoError(t, err)
	stat, err = CreateStream[BinaryChunk](streamer, NewBoltSource(db, "upload"), destination).Start(ctx).Await(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, stat.Chunks)
	assert.Equal(t, data, buffer.Bytes())

	t.Run("With missing bucket", func(t *testing.T) {
		destination, err := NewWriterDestination(new(bytes.Buffer))
		require.NoError(t, err)
		_, err = CreateStream[BinaryChunk](streamer, NewBoltSource(db, "missing"), destination).Start(ctx).Await(ctx)
		assert.ErrorContains(t, err, `bucket "missing" not found`)
	})
}

func TestDigestDestination(t *testing.T) {
	ctx := context.Background()
	streamer, _ := newStreamer(t)
	data := randomBytes(t, 100_000)

	source, err := NewReaderSource(bytes.NewReader(data), WithChunkSize(8192))
	require.NoError(t, err)

	var buffer bytes.Buffer
	writer, err := NewWriterDestination(&buffer)
	require.NoError(t, err)
	destination := NewDigestDestination(writer)

	_, err = CreateStream[BinaryChunk](streamer, source, destination).Start(ctx).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, xxh3.Hash(data), destination.Sum64())
	assert.Equal(t, data, buffer.Bytes())
}

func TestLookupCodec(t *testing.T) {
	for name, expected := range map[string]Codec{
		"":         None,
		"identity": None,
		"ZSTD":     Zstd,
		"gz":       Gzip,
		"gzip":     Gzip,
		"br":       Brotli,
		"brotli":   Brotli,
	} {
		codec, ok := LookupCodec(name)
		require.True(t, ok, name)
		assert.Equal(t, expected.Name(), codec.Name())
	}

	_, ok := LookupCodec("lz4")
	assert.False(t, ok)
}
