// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/cosim"
)

var dff = &cosim.PartSpec{
	Name:    "DFF",
	Inputs:  cosim.Inputs{pClk, pIn},
	Outputs: cosim.Outputs{pOut},
	Mount: func(s *cosim.Socket) []cosim.Component {
		clk, in, out := s.Pin(pClk), s.Pin(pIn), s.Pin(pOut)
		var prev, cur bool
		return []cosim.Component{
			func(c *cosim.Circuit) {
				// raising edge?
				if v := c.Get(clk); v != prev {
					if v {
						cur = c.Get(in)
					}
					prev = v
				}
				c.Set(out, cur)
			}}
	}}

// DFF returns a data flip flop clocked by its clk pin. The output changes
// on the step following the one where the flip flop sees the rising edge of
// clk.
//
//	Inputs: clk, in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) cosim.Part {
	return dff.NewPart(w)
}

// DFFN returns a N-bits register made of data flip flops sharing the same
// clock.
//
//	Inputs: clk, in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i](t) = in[i](t-1) }
//
func DFFN(bits int) cosim.NewPartFn {
	return (&cosim.PartSpec{
		Name:    "DFF" + strconv.Itoa(bits),
		Inputs:  append([]string{pClk}, bus(bits, pIn)...),
		Outputs: bus(bits, pOut),
		Mount: func(s *cosim.Socket) []cosim.Component {
			clk, in, out := s.Pin(pClk), s.Bus(pIn, bits), s.Bus(pOut, bits)
			var prev bool
			cur := make([]bool, bits)
			return []cosim.Component{
				func(c *cosim.Circuit) {
					if v := c.Get(clk); v != prev {
						if v {
							for i, pin := range in {
								cur[i] = c.Get(pin)
							}
						}
						prev = v
					}
					for i, pin := range out {
						c.Set(pin, cur[i])
					}
				}}
		}}).NewPart
}
