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

package pubsub

import (
	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/internal/validation"
)

// Topic names a publish/subscribe channel. Two topics are equal when their names are.
type Topic struct {
	name string
}

// NewTopic validates name and returns the matching Topic
func NewTopic(name string) (Topic, error) {
	if err := validation.NewNameValidator(name, validation.NamePattern, errors.ErrInvalidTopic).Validate(); err != nil {
		return Topic{}, err
	}
	return Topic{name: name}, nil
}

// MustTopic is NewTopic panicking on an invalid name
func MustTopic(name string) Topic {
	topic, err := NewTopic(name)
	if err != nil {
		panic(err)
	}
	return topic
}

// Name returns the topic name
func (t Topic) Name() string {
	return t.name
}

// String implements fmt.Stringer
func (t Topic) String() string {
	return t.name
}

// IsZero reports whether t was never validated
func (t Topic) IsZero() bool {
	return t.name == ""
}
