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

package validation

import (
	"regexp"
	"strings"
)

// MaxNameLength bounds actor, system and topic names
const MaxNameLength = 255

var (
	// NamePattern matches actor and topic names
	NamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.\-]*$`)
	// SystemNamePattern matches actor system names
	SystemNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]*$`)
)

type nameValidator struct {
	name    string
	pattern *regexp.Regexp
	err     error
}

// NewNameValidator checks that name is not blank, fits MaxNameLength and matches pattern.
// Every violation is reported as err.
func NewNameValidator(name string, pattern *regexp.Regexp, err error) Validator {
	return nameValidator{name: name, pattern: pattern, err: err}
}

// Validate executes the validation
func (v nameValidator) Validate() error {
	if strings.TrimSpace(v.name) == "" || len(v.name) > MaxNameLength {
		return v.err
	}
	return NewPatternValidator(v.pattern, v.name, v.err).Validate()
}
