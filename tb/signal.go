// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"strings"
)

// MaxWidth is the widest signal a DUT can expose.
//
const MaxWidth = 63

// A Signal is a handle to one of the pins or buses of a DUT.
//
// Signals connected to DUT inputs are driven by tasks with Set. Signals
// connected to DUT outputs are read-only and track the circuit state.
//
type Signal struct {
	sim    *Sim
	name   string
	width  int
	driven bool
	mask   int64

	value   int64 // value seen by tasks
	sampled int64 // last value reported by the circuit (observed signals only)

	waiters []*waiter
}

func newSignal(s *Sim, name string, width int, driven bool) *Signal {
	return &Signal{
		sim:    s,
		name:   name,
		width:  width,
		driven: driven,
		mask:   1<<uint(width) - 1,
	}
}

// Name returns the signal name.
//
func (s *Signal) Name() string { return s.name }

// Width returns the signal width in bits.
//
func (s *Signal) Width() int { return s.width }

// Driven returns true if the signal is connected to a DUT input.
//
func (s *Signal) Driven() bool { return s.driven }

// Set sets the value of a driven signal. Bits outside the signal width are
// ignored. Tasks waiting on an edge of s are woken up within the same time
// step. The circuit sees the new value on its next evaluation.
//
// Set panics if s is connected to a DUT output.
//
func (s *Signal) Set(v int64) {
	if !s.driven {
		panic("signal " + s.name + " is read-only")
	}
	s.update(v & s.mask)
}

// SetBool sets a driven signal to 1 if b is true, 0 otherwise.
//
func (s *Signal) SetBool(b bool) {
	var v int64
	if b {
		v = 1
	}
	s.Set(v)
}

// Int returns the current value of the signal.
//
func (s *Signal) Int() int64 { return s.value }

// Bool returns true if the signal is non-zero.
//
func (s *Signal) Bool() bool { return s.value != 0 }

// String returns the binary representation of the signal value, msb first.
//
func (s *Signal) String() string {
	var b strings.Builder
	for i := s.width - 1; i >= 0; i-- {
		if s.value&(1<<uint(i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// sample is called by the circuit with the current output value.
func (s *Signal) sample(v int64) { s.sampled = v & s.mask }

// latch propagates the last sampled value to tasks.
func (s *Signal) latch() { s.update(s.sampled) }

func (s *Signal) update(v int64) {
	old := s.value
	if old == v {
		return
	}
	s.value = v
	if len(s.waiters) == 0 {
		return
	}
	ws := s.waiters[:0]
	for _, w := range s.waiters {
		if w.match(old, v) {
			w.count--
			if w.count <= 0 {
				s.sim.schedule(w.task)
				continue
			}
		}
		ws = append(ws, w)
	}
	for i := len(ws); i < len(s.waiters); i++ {
		s.waiters[i] = nil
	}
	s.waiters = ws
}

func (s *Signal) wait(w *waiter) {
	s.waiters = append(s.waiters, w)
}
