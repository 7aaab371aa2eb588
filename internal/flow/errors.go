package flow

import "fmt"

// NotConnectedError reports that an input slot has no upstream node.
type NotConnectedError struct{}

// Error implements the error interface.
func (e *NotConnectedError) Error() string {
	return "not connected"
}

// InputError reports that a node could not be recomputed because one of its
// inputs is invalid. It is always attributed to the lowest failing input
// index. The wrapped cause is a NotConnectedError, a ProcessError, or
// another InputError from further upstream.
type InputError struct {
	// Input is the index of the failing input slot.
	Input int
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("input %d: %v", e.Input, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error {
	return e.Err
}

// ProcessError reports that a node's processing capability itself failed.
type ProcessError struct {
	// Err is the raw failure returned by the processor.
	Err error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("process: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProcessError) Unwrap() error {
	return e.Err
}
