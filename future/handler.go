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

package future

import (
	"sync"
)

// errorHandler is an error callback with its eligibility for a given rejection
type errorHandler struct {
	// rank returns -1 when the handler does not apply to err,
	// otherwise the smaller the rank the closer the match
	rank func(err error) int
	fn   func(err error)
	once sync.Once
}

func (h *errorHandler) fire(err error) {
	h.once.Do(func() {
		safely(func() { h.fn(err) })
	})
}

// best returns the handlers sharing the smallest rank for err, in registration order
func best(handlers []*errorHandler, err error) ([]*errorHandler, int) {
	bestRank := catchAllRank + 1
	var selected []*errorHandler
	for _, handler := range handlers {
		rank := handler.rank(err)
		switch {
		case rank < 0 || rank > bestRank:
		case rank < bestRank:
			bestRank = rank
			selected = append(selected[:0], handler)
		default:
			selected = append(selected, handler)
		}
	}
	return selected, bestRank
}

// rankOf returns the position of the first E in the unwrap chain of err
func rankOf[E error](err error) int {
	for i, link := range chain(err) {
		if _, ok := link.(E); ok {
			return i
		}
	}
	return -1
}

func find[E error](err error) (E, bool) {
	for _, link := range chain(err) {
		if target, ok := link.(E); ok {
			return target, true
		}
	}
	var zero E
	return zero, false
}

// chain flattens the unwrap tree of err, depth first
func chain(err error) []error {
	var links []error
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		links = append(links, err)
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		}
	}
	walk(err)
	return links
}
