package cw

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the core. Callers compare with errors.Is.
var (
	// ErrInvalid is returned for arguments outside their declared range:
	// frequency, duration, speed, an unrecognised representation character.
	ErrInvalid = errors.New("cw: invalid argument")

	// ErrFull is returned when the tone queue has no slot for a new tone.
	ErrFull = errors.New("cw: tone queue full")

	// ErrBusy is returned when a receiver or keyer is in a state that
	// forbids the requested transition.
	ErrBusy = errors.New("cw: busy")

	// ErrNotReady is returned by a receiver poll made before a character
	// boundary has been crossed.
	ErrNotReady = errors.New("cw: not ready")

	// ErrSink wraps an error returned by the audio sink's WriteBlock. It
	// does not stop the generator; the consumer drops the current tone,
	// resets phase, and continues.
	ErrSink = errors.New("cw: sink error")
)

// assertf panics if cond is false. It exists for the internal invariants
// spec'd as "assertions that abort in debug builds" (queue length bounds,
// state machine transitions that must never be reached).
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
