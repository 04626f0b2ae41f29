// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned by the simulator. Use errors.Cause to compare.
//
var (
	// ErrSimEnded is returned by Task.Await once the simulation session is over.
	ErrSimEnded = errors.New("simulation ended")
	// ErrStalled is returned by Sim.Run when no pending event can resume
	// any task.
	ErrStalled = errors.New("simulation stalled")
	// ErrMaxTime is returned by Sim.Run when the simulated time exceeds the
	// configured maximum.
	ErrMaxTime = errors.New("maximum simulation time exceeded")
)

// AssertionMismatch is the error returned by failed checks.
//
type AssertionMismatch struct {
	Expected int64
	Got      int64
	Msg      string
}

func (e *AssertionMismatch) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("Expected %d, got %d", e.Expected, e.Got)
}

// AssertEqual returns an *AssertionMismatch if got != expected, nil otherwise.
// An optional message overrides the default "Expected x, got y". It is
// formatted with fmt.Sprintf only when followed by arguments.
//
func AssertEqual(expected, got int64, msgAndArgs ...interface{}) error {
	if expected == got {
		return nil
	}
	e := &AssertionMismatch{Expected: expected, Got: got}
	if len(msgAndArgs) > 0 {
		if f, ok := msgAndArgs[0].(string); ok {
			e.Msg = f
			if len(msgAndArgs) > 1 {
				e.Msg = fmt.Sprintf(f, msgAndArgs[1:]...)
			}
		}
	}
	return errors.WithStack(e)
}

// IsAssertion returns the *AssertionMismatch wrapped in err, if any.
//
func IsAssertion(err error) (*AssertionMismatch, bool) {
	am, ok := errors.Cause(err).(*AssertionMismatch)
	return am, ok
}
