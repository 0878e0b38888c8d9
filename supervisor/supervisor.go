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

// Package supervisor decides how an actor reacts to a failed processing step.
//
// A Supervisor is a pure function of the failure: it maps the error to a
// Directive and holds no per-actor state, so a single value can be shared by
// any number of actors.
package supervisor

import (
	"errors"
	"reflect"

	gerrors "github.com/tidewave/courier/errors"
)

// Directive is the action taken after a failure
type Directive int

const (
	// ResumeDirective logs the failure and keeps processing the mailbox.
	ResumeDirective Directive = iota
	// StopDirective stops the failing actor. Its mailbox is discarded.
	StopDirective
	// EscalateDirective hands the failure to the actor system escalation
	// handler then stops the failing actor.
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case ResumeDirective:
		return "Resume"
	case StopDirective:
		return "Stop"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}

// Decider is the shape of a fault policy
type Decider func(err error) Directive

// Option defines the various options to apply to a given Supervisor
type Option func(*Supervisor)

// WithDirective maps the concrete type of err to directive.
// Pointer and value types are distinct, pass the same form the actor returns.
func WithDirective(err error, directive Directive) Option {
	return func(s *Supervisor) {
		s.directives[errorType(err)] = directive
	}
}

// WithAnyErrorDirective sets the directive applied when no type rule matches
func WithAnyErrorDirective(directive Directive) Option {
	return WithDirective(new(gerrors.AnyError), directive)
}

// WithDefaultDirective replaces the fallback directive, ResumeDirective unless set
func WithDefaultDirective(directive Directive) Option {
	return func(s *Supervisor) {
		s.fallback = directive
	}
}

// Supervisor maps error types to directives.
//
// Decide looks for a rule matching the concrete type of the error, then the
// types found while unwrapping it, then the any-error rule and finally the
// fallback directive. A Supervisor is immutable once built.
type Supervisor struct {
	directives map[string]Directive
	fallback   Directive
}

// NewSupervisor creates a Supervisor. Without options every failure resumes.
func NewSupervisor(opts ...Option) *Supervisor {
	s := &Supervisor{
		directives: make(map[string]Directive),
		fallback:   ResumeDirective,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide returns the directive for err
func (s *Supervisor) Decide(err error) Directive {
	if err == nil {
		return ResumeDirective
	}

	if directive, ok := s.match(err); ok {
		return directive
	}

	if directive, ok := s.directives[errorType(new(gerrors.AnyError))]; ok {
		return directive
	}
	return s.fallback
}

// Decider returns Decide as a Decider
func (s *Supervisor) Decider() Decider {
	return s.Decide
}

// match walks the error tree depth first
func (s *Supervisor) match(err error) (Directive, bool) {
	if err == nil {
		return 0, false
	}

	if directive, ok := s.directives[errorType(err)]; ok {
		return directive, true
	}

	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if directive, ok := s.match(e); ok {
				return directive, true
			}
		}
		return 0, false
	default:
		return s.match(errors.Unwrap(err))
	}
}

func errorType(err error) string {
	return reflect.TypeOf(err).String()
}
