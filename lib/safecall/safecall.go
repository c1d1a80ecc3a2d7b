// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package safecall runs application callbacks so that a panic in one
// cannot unwind the caller.
//
// Lifecycle propagation, click handlers and timer callbacks all go
// through [Call]. A panic becomes an error wrapping [ErrPanic]; the
// caller logs it and carries on with the next node, widget or timer.
package safecall

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrPanic is wrapped by the error [Call] returns when fn panicked.
var ErrPanic = errors.New("callback panicked")

// PanicError is returned by [Call] when fn panicked. It matches
// ErrPanic under errors.Is, and also the panic value when that value
// is an error.
type PanicError struct {
	// Value is what fn panicked with.
	Value any

	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPanic, e.Value)
}

func (e *PanicError) Unwrap() []error {
	if cause, ok := e.Value.(error); ok {
		return []error{ErrPanic, cause}
	}
	return []error{ErrPanic}
}

// Call runs fn and returns its error. A panic inside fn is recovered
// and returned as a *PanicError carrying the stack.
func Call(fn func() error) (err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		err = &PanicError{Value: recovered, Stack: debug.Stack()}
	}()
	return fn()
}

// StackOf returns the stack recorded in err when it came from a
// recovered panic.
func StackOf(err error) ([]byte, bool) {
	var panicked *PanicError
	if !errors.As(err, &panicked) {
		return nil, false
	}
	return panicked.Stack, true
}

// Do is Call for callbacks that do not return an error.
func Do(fn func()) error {
	return Call(func() error {
		fn()
		return nil
	})
}
