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

// Package address identifies actors within one actor system.
//
// An Address is a comparable value made of the actor system name and the
// actor name. Its canonical textual form is:
//
//	urn:courier:<system>:<name>
package address

import (
	"fmt"
	"strings"

	"github.com/tidewave/courier/errors"
	"github.com/tidewave/courier/internal/validation"
)

const urnPrefix = "urn:courier:"

// Address is the identity of an actor. The zero value means "no sender".
type Address struct {
	system string
	name   string
}

var _ validation.Validator = Address{}

// New creates an Address. It does not validate its input, see Validate.
func New(system, name string) Address {
	return Address{system: system, name: name}
}

// NoSender returns the zero Address
func NoSender() Address {
	return Address{}
}

// Parse reads an Address from its canonical form
func Parse(urn string) (Address, error) {
	rest, ok := strings.CutPrefix(urn, urnPrefix)
	if !ok {
		return Address{}, fmt.Errorf("invalid address %q: missing %q prefix", urn, urnPrefix)
	}

	system, name, ok := strings.Cut(rest, ":")
	if !ok {
		return Address{}, fmt.Errorf("invalid address %q: missing actor name", urn)
	}

	addr := New(system, name)
	if err := addr.Validate(); err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", urn, err)
	}
	return addr, nil
}

// System returns the actor system name
func (a Address) System() string {
	return a.system
}

// Name returns the actor name
func (a Address) Name() string {
	return a.name
}

// IsZero reports whether a is the no-sender address
func (a Address) IsZero() bool {
	return a == Address{}
}

// Equals is the same as a == other
func (a Address) Equals(other Address) bool {
	return a == other
}

// String returns the canonical form
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	return urnPrefix + a.system + ":" + a.name
}

// Validate checks the system and actor names. The zero Address is valid.
func (a Address) Validate() error {
	if a.IsZero() {
		return nil
	}

	return validation.New(validation.FailFast()).
		AddValidator(validation.NewNameValidator(a.system, validation.SystemNamePattern, errors.ErrInvalidActorSystemName)).
		AddValidator(validation.NewNameValidator(a.name, validation.NamePattern, errors.ErrInvalidActorName)).
		Validate()
}
