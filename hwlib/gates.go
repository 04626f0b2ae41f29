// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for cosim.
//
// Parts with bus pins take the bus width as an argument and return a
// cosim.NewPartFn. Bus pin 0 is the least significant bit.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/cosim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
	pClk = "clk"
)

// make a bus name
func bus(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		b = append(b, cosim.PinRef{Name: n, Start: 0, End: bits - 1}.Pins()...)
	}
	return b
}

var notGate = &cosim.PartSpec{
	Name:    "NOT",
	Inputs:  cosim.Inputs{pIn},
	Outputs: cosim.Outputs{pOut},
	Mount: func(s *cosim.Socket) []cosim.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []cosim.Component{
			func(c *cosim.Circuit) { c.Set(out, !c.Get(in)) },
		}
	},
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) cosim.Part {
	return notGate.NewPart(w)
}

// other gates
type gate func(a, b bool) bool

func (g gate) mount(s *cosim.Socket) []cosim.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []cosim.Component{
		func(c *cosim.Circuit) { c.Set(out, g(c.Get(a), c.Get(b))) },
	}
}

func newGate(name string, fn func(a, b bool) bool) *cosim.PartSpec {
	return &cosim.PartSpec{
		Name:    name,
		Inputs:  gateIn,
		Outputs: gateOut,
		Mount:   gate(fn).mount,
	}
}

func and(a, b bool) bool { return a && b }
func or(a, b bool) bool  { return a || b }

var (
	gateIn  = cosim.Inputs{pA, pB}
	gateOut = cosim.Outputs{pOut}

	andGate  = newGate("AND", and)
	nandGate = newGate("NAND", func(a, b bool) bool { return !(a && b) })
	orGate   = newGate("OR", or)
	norGate  = newGate("NOR", func(a, b bool) bool { return !(a || b) })
	xorGate  = newGate("XOR", func(a, b bool) bool { return a != b })
)

// And returns a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(w string) cosim.Part { return andGate.NewPart(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(w string) cosim.Part { return nandGate.NewPart(w) }

// Or returns a OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or(w string) cosim.Part { return orGate.NewPart(w) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor(w string) cosim.Part { return norGate.NewPart(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
//
func Xor(w string) cosim.Part { return xorGate.NewPart(w) }

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = !in[i] }
//
func NotN(bits int) cosim.NewPartFn {
	return (&cosim.PartSpec{
		Name:    "NOT" + strconv.Itoa(bits),
		Inputs:  bus(bits, pIn),
		Outputs: bus(bits, pOut),
		Mount: func(s *cosim.Socket) []cosim.Component {
			ins := s.Bus(pIn, bits)
			outs := s.Bus(pOut, bits)
			return []cosim.Component{func(c *cosim.Circuit) {
				for i, pin := range ins {
					c.Set(outs[i], !c.Get(pin))
				}
			}}
		}}).NewPart
}

type gateN struct {
	bits int
	fn   func(a, b bool) bool
}

func (g *gateN) mount(s *cosim.Socket) []cosim.Component {
	a, b, out := s.Bus(pA, g.bits), s.Bus(pB, g.bits), s.Bus(pOut, g.bits)
	return []cosim.Component{
		func(c *cosim.Circuit) {
			for i := range out {
				c.Set(out[i], g.fn(c.Get(a[i]), c.Get(b[i])))
			}
		}}
}

// GateN returns a N-bits logic gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = f(a[i], b[i]) }
//
func GateN(name string, bits int, f func(a, b bool) bool) cosim.NewPartFn {
	return (&cosim.PartSpec{
		Name:    name + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: bus(bits, pOut),
		Mount:   (&gateN{bits, f}).mount,
	}).NewPart
}

// AndN returns a N-bits AND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = a[i] && b[i] }
//
// Connecting all b pins to a single wire ("b[0..n]=en") makes a N-bits
// enable gate.
//
func AndN(bits int) cosim.NewPartFn { return GateN("AND", bits, and) }

// OrN returns a N-bits OR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = a[i] || b[i] }
//
func OrN(bits int) cosim.NewPartFn { return GateN("OR", bits, or) }
