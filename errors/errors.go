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

// Package errors defines the error taxonomy of the runtime.
//
// Sentinel errors are compared with errors.Is. Typed errors carry details and
// are extracted with errors.As.
package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidActorSystemName is returned when the actor system name contains invalid characters.
	ErrInvalidActorSystemName = errors.New("invalid actor system name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrInvalidActorName is returned when an actor name is empty, too long or contains invalid characters.
	ErrInvalidActorName = errors.New("invalid actor name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-', '_' or '.')")

	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorAlreadyExists is returned when trying to create an actor with a name that already exists.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when Start is called twice.
	ErrActorSystemAlreadyStarted = errors.New("actor system has already started")

	// ErrActorSystemStopped is returned when starting an actor system that was stopped. A stopped system cannot be restarted.
	ErrActorSystemStopped = errors.New("actor system has been stopped")

	// ErrInitFailure is returned when the actor's PreStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrMailboxFull is returned when a bounded mailbox cannot accept more messages.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrMailboxDisposed is returned when enqueueing into a mailbox of a stopped actor.
	ErrMailboxDisposed = errors.New("mailbox is disposed")

	// ErrDispatcherStopped is returned when work is handed to a stopped dispatcher.
	ErrDispatcherStopped = errors.New("dispatcher is stopped")

	// ErrInvalidMessage indicates that a message is structurally or semantically invalid.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrAlreadySettled is returned when resolving or rejecting a promise that already has an outcome.
	ErrAlreadySettled = errors.New("promise is already settled")

	// ErrNilRejection is the cause of a promise rejected with a nil error.
	ErrNilRejection = errors.New("promise rejected without a cause")

	// ErrRequestTimeout indicates that a supervised wait exceeded its bound.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidTopic is returned when a topic name is empty, too long or contains invalid characters.
	ErrInvalidTopic = errors.New("invalid topic name")

	// ErrPubSubClosed is returned when using a pub/sub instance after Shutdown.
	ErrPubSubClosed = errors.New("pubsub is shut down")

	// ErrSourceReleased is returned when recharging a source that is already released.
	ErrSourceReleased = errors.New("source is released")

	// ErrStreamAlreadyStarted is returned when Start is called twice on the same stream.
	ErrStreamAlreadyStarted = errors.New("stream has already started")
)

// TypeMismatchError is returned when a message body does not have the expected type
type TypeMismatchError struct {
	Expected string
	Actual   string
}

var _ error = (*TypeMismatchError)(nil)

// NewTypeMismatchError creates a TypeMismatchError from the expected type name and the offending value
func NewTypeMismatchError(expected string, actual any) *TypeMismatchError {
	return &TypeMismatchError{
		Expected: expected,
		Actual:   fmt.Sprintf("%T", actual),
	}
}

// Error implements the standard error interface
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// TimeoutError is returned when a timeout supervisor fires before the awaited reply.
// errors.Is(err, ErrRequestTimeout) holds for it.
type TimeoutError struct {
	After time.Duration
}

var _ error = (*TimeoutError)(nil)

// NewTimeoutError creates a TimeoutError
func NewTimeoutError(after time.Duration) *TimeoutError {
	return &TimeoutError{After: after}
}

// Error implements the standard error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s after %s", ErrRequestTimeout.Error(), e.After)
}

// Is matches ErrRequestTimeout
func (e *TimeoutError) Is(target error) bool {
	return target == ErrRequestTimeout
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// PanicErrorFrom turns a recovered value into a PanicError
func PanicErrorFrom(recovered any) *PanicError {
	if err, ok := recovered.(error); ok {
		return NewPanicError(err)
	}
	return NewPanicError(fmt.Errorf("%v", recovered))
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// InitError is returned when an actor cannot be initialized.
// errors.Is(err, ErrInitFailure) holds for it.
type InitError struct {
	err error
}

var _ error = (*InitError)(nil)

// NewInitError returns an instance of InitError
func NewInitError(err error) *InitError {
	return &InitError{err: err}
}

// Error implements the standard error interface
func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInitFailure.Error(), e.err)
}

// Unwrap implements the standard error wrapper interface
func (e *InitError) Unwrap() error {
	return e.err
}

// Is matches ErrInitFailure
func (e *InitError) Is(target error) bool {
	return target == ErrInitFailure
}

// ProtocolError is returned by a state machine receiving a command it cannot handle in its current state
type ProtocolError struct {
	State   string
	Command string
}

var _ error = (*ProtocolError)(nil)

// NewProtocolError creates a ProtocolError
func NewProtocolError(state, command string) *ProtocolError {
	return &ProtocolError{State: state, Command: command}
}

// Error implements the standard error interface
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation: %s is not allowed in state %s", e.Command, e.State)
}

// AnyError defines the any error type
// this is used to represent any error when handling the supervisor directive
type AnyError struct{}

var _ error = (*AnyError)(nil)

// Error implements error.
func (*AnyError) Error() string {
	return "*"
}
