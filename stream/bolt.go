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
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// BoltSource reads the chunks stored in a bbolt bucket in key order.
// Keys are big-endian sequence numbers, as written by BoltDestination.
type BoltSource struct {
	db     *bolt.DB
	bucket []byte
	next   uint64
}

var _ Source[BinaryChunk] = (*BoltSource)(nil)

// NewBoltSource creates a BoltSource. The database stays open on release.
func NewBoltSource(db *bolt.DB, bucket string) *BoltSource {
	return &BoltSource{db: db, bucket: []byte(bucket)}
}

// Read submits the chunk following the last one read
func (s *BoltSource) Read(conn Connection[BinaryChunk]) error {
	var chunk BinaryChunk
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("bucket %q not found", s.bucket)
		}

		key, value := bucket.Cursor().Seek(sequenceKey(s.next))
		if key == nil {
			return nil
		}

		// values are only valid during the transaction, NewChunk copies them
		chunk = NewChunk(value)
		s.next = binary.BigEndian.Uint64(key) + 1
		return nil
	})
	if err != nil {
		return err
	}

	if chunk.IsEmpty() {
		return conn.Complete()
	}
	return conn.Submit(chunk, chunk.Len())
}

// Release implements Source
func (s *BoltSource) Release(error) error {
	return nil
}

// BoltDestination appends every chunk to a bbolt bucket under the next
// sequence number of the bucket
type BoltDestination struct {
	db     *bolt.DB
	bucket []byte
}

var _ Destination[BinaryChunk] = (*BoltDestination)(nil)

// NewBoltDestination creates a BoltDestination. The bucket is created on the first write.
func NewBoltDestination(db *bolt.DB, bucket string) *BoltDestination {
	return &BoltDestination{db: db, bucket: []byte(bucket)}
}

// Write stores data and acknowledges it
func (d *BoltDestination) Write(conn Connection[BinaryChunk], data BinaryChunk, _ int) error {
	err := d.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(d.bucket)
		if err != nil {
			return err
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(sequenceKey(seq), data.Bytes())
	})
	if err != nil {
		return err
	}
	return conn.Receive()
}

// Release implements Destination
func (d *BoltDestination) Release(error) error {
	return nil
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
