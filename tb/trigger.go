// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"strconv"
)

// A Trigger is an event a Task can wait for with Task.Await.
//
type Trigger interface {
	// prime arms the trigger so that t gets scheduled when it fires.
	prime(t *Task)
	String() string
}

type edgeKind int

const (
	edgeRising edgeKind = iota
	edgeFalling
	edgeAny
)

type waiter struct {
	task  *Task
	kind  edgeKind
	count int
}

func (w *waiter) match(old, new int64) bool {
	switch w.kind {
	case edgeRising:
		return old&1 == 0 && new&1 != 0
	case edgeFalling:
		return old&1 != 0 && new&1 == 0
	}
	return true
}

type edgeTrigger struct {
	sig   *Signal
	kind  edgeKind
	count int
}

func (e *edgeTrigger) prime(t *Task) {
	if e.count <= 0 {
		t.sim.schedule(t)
		return
	}
	e.sig.wait(&waiter{task: t, kind: e.kind, count: e.count})
}

func (e *edgeTrigger) String() string {
	switch e.kind {
	case edgeRising:
		if e.count != 1 {
			return "ClockCycles(" + e.sig.name + ", " + strconv.Itoa(e.count) + ")"
		}
		return "RisingEdge(" + e.sig.name + ")"
	case edgeFalling:
		return "FallingEdge(" + e.sig.name + ")"
	}
	return "ValueChange(" + e.sig.name + ")"
}

func bitEdge(s *Signal, kind edgeKind, n int) Trigger {
	if s.width != 1 {
		panic("edge trigger on multi-bit signal " + s.name)
	}
	return &edgeTrigger{sig: s, kind: kind, count: n}
}

// RisingEdge fires on the next 0 to 1 transition of the 1-bit signal s.
//
func RisingEdge(s *Signal) Trigger { return bitEdge(s, edgeRising, 1) }

// FallingEdge fires on the next 1 to 0 transition of the 1-bit signal s.
//
func FallingEdge(s *Signal) Trigger { return bitEdge(s, edgeFalling, 1) }

// ClockCycles fires on the n-th rising edge of the 1-bit signal s. If n <= 0,
// it fires immediately.
//
func ClockCycles(s *Signal, n int) Trigger { return bitEdge(s, edgeRising, n) }

// ValueChange fires on the next value change of s.
//
func ValueChange(s *Signal) Trigger { return &edgeTrigger{sig: s, kind: edgeAny, count: 1} }

type timer uint64

func (d timer) prime(t *Task) {
	if d == 0 {
		t.sim.schedule(t)
		return
	}
	t.sim.addTimer(t.sim.now+uint64(d), t)
}

func (d timer) String() string { return "Timer(" + strconv.FormatUint(uint64(d), 10) + ")" }

// Timer fires after d time units. Timer(0) resumes the task within the same
// time step, after all other ready tasks.
//
func Timer(d uint64) Trigger { return timer(d) }

type join struct{ t *Task }

func (j join) prime(t *Task) {
	if j.t.done {
		t.sim.schedule(t)
		return
	}
	j.t.joiners = append(j.t.joiners, t)
}

func (j join) String() string { return "Join(" + j.t.name + ")" }
