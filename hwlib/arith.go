// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/cosim"
)

var hAdder = &cosim.PartSpec{
	Name:    "HalfAdder",
	Inputs:  cosim.Inputs{pA, pB},
	Outputs: cosim.Outputs{"s", "c"},
	Mount: func(s *cosim.Socket) []cosim.Component {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []cosim.Component{
			func(c *cosim.Circuit) {
				va, vb := c.Get(a), c.Get(b)
				c.Set(sum, va != vb)
				c.Set(cout, va && vb)
			}}
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(c string) cosim.Part {
	return hAdder.NewPart(c)
}

var adder = &cosim.PartSpec{
	Name:    "FullAdder",
	Inputs:  cosim.Inputs{pA, pB, "cin"},
	Outputs: cosim.Outputs{"s", "cout"},
	Mount: func(s *cosim.Socket) []cosim.Component {
		a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin("cin")
		sum, cout := s.Pin("s"), s.Pin("cout")
		return []cosim.Component{
			func(c *cosim.Circuit) {
				va, vb, vc := c.Get(a), c.Get(b), c.Get(cin)
				s := va != vb
				c.Set(sum, s != vc)
				c.Set(cout, s && vc || va && vb)
			}}
	}}

// FullAdder returns a 3 bits adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(c string) cosim.Part {
	return adder.NewPart(c)
}

// AdderN returns a N-bits adder. The carry out is set on overflow.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = a + b
//	          c = carry(a + b)
//
func AdderN(bits int) cosim.NewPartFn {
	return (&cosim.PartSpec{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: append(bus(bits, pOut), "c"),
		Mount: func(s *cosim.Socket) []cosim.Component {
			a, b := s.Bus(pA, bits), s.Bus(pB, bits)
			out, cout := s.Bus(pOut, bits), s.Pin("c")
			return []cosim.Component{
				func(c *cosim.Circuit) {
					cc := false
					for i, o := range out {
						va, vb := c.Get(a[i]), c.Get(b[i])
						s0 := va != vb
						c.Set(o, s0 != cc)
						cc = va && vb || s0 && cc
					}
					c.Set(cout, cc)
				}}
		}}).NewPart
}
