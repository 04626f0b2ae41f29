// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"log/slog"

	"github.com/pkg/errors"
)

// A TaskFunc is the body of a Task.
//
type TaskFunc func(t *Task) error

// A Task is a cooperative coroutine scheduled by a Sim.
//
// Tasks run one at a time. A task keeps control until it returns or calls
// Await.
//
type Task struct {
	sim     *Sim
	name    string
	fn      TaskFunc
	wake    chan struct{}
	started bool
	queued  bool
	done    bool
	err     error
	joiners []*Task
	waiting Trigger
}

// Name returns the task name.
//
func (t *Task) Name() string { return t.name }

// Sim returns the simulator running t.
//
func (t *Task) Sim() *Sim { return t.sim }

// Now returns the current simulated time.
//
func (t *Task) Now() uint64 { return t.sim.now }

// Done returns true once the task has returned.
//
func (t *Task) Done() bool { return t.done }

// Err returns the error returned by a finished task.
//
func (t *Task) Err() error { return t.err }

// Log returns a logger annotated with the task name and current simulated time.
//
func (t *Task) Log() *slog.Logger {
	return t.sim.log.With("task", t.name, "sim_time", t.sim.now, "unit", t.sim.unit)
}

// StartSoon schedules fn to run as a new task in the current time step,
// after the tasks already scheduled.
//
func (t *Task) StartSoon(name string, fn TaskFunc) *Task {
	return t.sim.StartSoon(name, fn)
}

// Join returns a trigger that fires when t returns.
//
func (t *Task) Join() Trigger { return join{t} }

// Await suspends the calling task until trig fires. It must be called from
// the task's own function.
//
// Await returns ErrSimEnded if the simulation ended while waiting. Tasks
// should then return as soon as possible.
//
func (t *Task) Await(trig Trigger) error {
	if t.sim.current != t {
		panic("Await called from outside task " + t.name)
	}
	trig.prime(t)
	t.waiting = trig
	// hand control back to the simulator
	select {
	case t.sim.yield <- struct{}{}:
	case <-t.sim.quit:
		return ErrSimEnded
	}
	select {
	case <-t.wake:
		t.waiting = nil
		return nil
	case <-t.sim.quit:
		return ErrSimEnded
	}
}

func (t *Task) run() {
	defer t.sim.wg.Done()
	err := t.call()
	t.err = err
	t.done = true
	select {
	case t.sim.yield <- struct{}{}:
	case <-t.sim.quit:
	}
}

func (t *Task) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrapf(e, "task %s panicked", t.name)
				return
			}
			err = errors.Errorf("task %s panicked: %v", t.name, r)
		}
	}()
	<-t.wake
	return t.fn(t)
}
