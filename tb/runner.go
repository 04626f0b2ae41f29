// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"context"
	"time"

	"github.com/db47h/cosim"
)

// A Test is a named test procedure run against a DUT.
//
type Test struct {
	Name string
	Func func(t *Task, dut *DUT) error
}

// Status is the outcome of a test.
//
type Status int

// Test outcomes.
//
const (
	Passed  Status = iota // the test procedure returned nil
	Failed                // a check failed with an *AssertionMismatch
	Errored               // any other error
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "PASS"
	case Failed:
		return "FAIL"
	}
	return "ERROR"
}

// Result holds the outcome of a test run.
//
type Result struct {
	Test    string
	Status  Status
	Err     error
	SimTime uint64
	Unit    string
	Elapsed time.Duration
}

// Run runs test in a fresh simulation of dut.
//
func Run(ctx context.Context, dut cosim.NewPartFn, test Test, opts ...Option) Result {
	start := time.Now()
	r := Result{Test: test.Name}
	s, err := New(dut, opts...)
	if err != nil {
		r.Status, r.Err = Errored, err
		r.Elapsed = time.Since(start)
		return r
	}
	err = s.Run(ctx, test.Name, func(t *Task) error {
		return test.Func(t, s.DUT())
	})
	r.Err = err
	r.SimTime = s.Now()
	r.Unit = s.Unit()
	r.Elapsed = time.Since(start)

	log := s.Logger().With("test", test.Name, "sim_time", r.SimTime, "unit", r.Unit, "elapsed", r.Elapsed)
	switch _, ok := IsAssertion(err); {
	case err == nil:
		r.Status = Passed
		log.Info("test passed")
	case ok:
		r.Status = Failed
		log.Error("test failed", "error", err)
	default:
		r.Status = Errored
		log.Error("test errored", "error", err)
	}
	return r
}

// RunAll runs each test in its own simulation session and returns the
// results in order. It stops early if ctx is cancelled.
//
func RunAll(ctx context.Context, dut cosim.NewPartFn, tests []Test, opts ...Option) []Result {
	rs := make([]Result, 0, len(tests))
	for _, t := range tests {
		if ctx.Err() != nil {
			break
		}
		rs = append(rs, Run(ctx, dut, t, opts...))
	}
	return rs
}
