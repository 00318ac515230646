package coroloop

import (
	"errors"
)

// Standard errors.
var (
	// ErrNoMem indicates an allocation failed inside a combinator or the
	// scratch arena.
	ErrNoMem = errors.New("coroloop: allocation failed")

	// ErrCanceled indicates a coroutine was canceled, either externally via
	// [Coro.Cancel] or by a [WaitFor] timeout.
	ErrCanceled = errors.New("coroloop: coroutine canceled")

	// ErrInvalidState indicates a state passed to an operation was not in a
	// valid state for it, e.g. canceling a state from inside its own cancel
	// hook.
	ErrInvalidState = errors.New("coroloop: invalid coroutine state")

	// ErrNilTask is returned by [Loop.AddTasks] when any entry is nil.
	ErrNilTask = errors.New("coroloop: nil task")
)

// errUnknownCode backs [Code.Err] for values outside the taxonomy.
var errUnknownCode = errors.New("coroloop: UNKNOWN ERROR")

// Code is the closed error taxonomy recorded on coroutine states.
//
// The zero value is [CodeOK]. Coroutine bodies may set a code via
// [Coro.SetErr]; the loop sets [CodeCanceled] when it finalizes a
// cancellation request.
type Code uint8

const (
	// CodeOK indicates no error.
	CodeOK Code = iota
	// CodeNoMem indicates an allocation failed inside a combinator or arena.
	CodeNoMem
	// CodeCanceled indicates the coroutine was canceled.
	CodeCanceled
	// CodeInvalidState indicates a state was used while in an invalid state.
	// Reserved primarily for user adapters.
	CodeInvalidState
)

// String returns the human-readable description of the code. Values outside
// the taxonomy map to "UNKNOWN ERROR".
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeNoMem:
		return "out of memory"
	case CodeCanceled:
		return "canceled"
	case CodeInvalidState:
		return "invalid state"
	default:
		return "UNKNOWN ERROR"
	}
}

// Err returns the sentinel error corresponding to the code, or nil for
// [CodeOK]. The result is stable, so it is suitable for [errors.Is].
func (c Code) Err() error {
	switch c {
	case CodeOK:
		return nil
	case CodeNoMem:
		return ErrNoMem
	case CodeCanceled:
		return ErrCanceled
	case CodeInvalidState:
		return ErrInvalidState
	default:
		return errUnknownCode
	}
}
