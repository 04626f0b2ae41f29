// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/cosim"
)

// Int64 returns the pins as an int64. Pin 0 is lsb.
//
func Int64(c *cosim.Circuit, pins []int) int64 {
	var out int64
	for bit := range pins {
		if c.Get(pins[bit]) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetInt64 sets the pins to the given int64 value.
//
func SetInt64(c *cosim.Circuit, pins []int, v int64) {
	for bit := range pins {
		c.Set(pins[bit], v&(1<<uint(bit)) != 0)
	}
}

// Input creates a function based input. f is called once per simulation
// step, from one of the circuit's worker goroutines.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() bool) cosim.NewPartFn {
	p := &cosim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: cosim.Outputs{pOut},
		Mount: func(s *cosim.Socket) []cosim.Component {
			pin := s.Pin(pOut)
			return []cosim.Component{
				func(c *cosim.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(bool)) cosim.NewPartFn {
	p := &cosim.PartSpec{
		Name:    "Output",
		Inputs:  cosim.Inputs{pIn},
		Outputs: nil,
		Mount: func(s *cosim.Socket) []cosim.Component {
			in := s.Pin(pIn)
			return []cosim.Component{
				func(c *cosim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
//
//	Outputs: out[bits]
//	Function: out = f()
//
func InputN(bits int, f func() int64) cosim.NewPartFn {
	return (&cosim.PartSpec{
		Name:    "Input" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: bus(bits, pOut),
		Mount: func(s *cosim.Socket) []cosim.Component {
			pins := s.Bus(pOut, bits)
			return []cosim.Component{func(c *cosim.Circuit) {
				SetInt64(c, pins, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
//
func OutputN(bits int, f func(int64)) cosim.NewPartFn {
	return (&cosim.PartSpec{
		Name:    "Output" + strconv.Itoa(bits),
		Inputs:  bus(bits, pIn),
		Outputs: nil,
		Mount: func(s *cosim.Socket) []cosim.Component {
			pins := s.Bus(pIn, bits)
			return []cosim.Component{func(c *cosim.Circuit) {
				f(Int64(c, pins))
			}}
		}}).NewPart
}
