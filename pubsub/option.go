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
	"time"

	"github.com/tidewave/courier/interactor"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *config)

// Apply applies the option
func (f OptionFunc) Apply(c *config) {
	f(c)
}

type config struct {
	name    string
	timeout time.Duration
}

func newConfig(opts ...Option) *config {
	c := &config{
		name:    "pubsub",
		timeout: interactor.DefaultTimeout,
	}
	for _, opt := range opts {
		opt.Apply(c)
	}
	return c
}

// WithName sets the name of the coordinator actor and the prefix of the subscriber proxies
func WithName(name string) Option {
	return OptionFunc(func(c *config) {
		c.name = name
	})
}

// WithRequestTimeout bounds every acknowledged request to the coordinator
func WithRequestTimeout(timeout time.Duration) Option {
	return OptionFunc(func(c *config) {
		if timeout > 0 {
			c.timeout = timeout
		}
	})
}
