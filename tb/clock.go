// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

// A Clock drives a 1-bit signal with a periodic square wave.
//
type Clock struct {
	sig    *Signal
	period uint64
}

// NewClock returns a clock driving sig with the given period in time units.
// It panics if sig is not a driven 1-bit signal or if period < 2.
//
func NewClock(sig *Signal, period uint64) *Clock {
	if !sig.driven || sig.width != 1 {
		panic("clock signal " + sig.name + " must be a 1-bit input")
	}
	if period < 2 {
		panic("clock period must be at least 2 time units")
	}
	return &Clock{sig: sig, period: period}
}

// Period returns the clock period.
//
func (c *Clock) Period() uint64 { return c.period }

// Start drives the clock signal forever: high for the first half period,
// then low. It is meant to run as a background task:
//
//	t.StartSoon("clock", clock.Start)
//
// Start only returns when the simulation ends.
//
func (c *Clock) Start(t *Task) error {
	high := c.period / 2
	low := c.period - high
	for {
		c.sig.Set(1)
		if err := t.Await(Timer(high)); err != nil {
			return err
		}
		c.sig.Set(0)
		if err := t.Await(Timer(low)); err != nil {
			return err
		}
	}
}
