// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cosim

import (
	"github.com/pkg/errors"
)

type chip struct {
	PartSpec // PartSpec for this chip
	parts    []Part
	// conns maps the pins of each part to wire names in the chip's namespace.
	conns []map[string][]string
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component

	// an output pin connected to several wires makes them a single wire.
	for i, p := range c.parts {
		for _, out := range p.Outputs {
			ws := c.conns[i][out]
			if len(ws) < 2 {
				continue
			}
			n := -1
			for _, w := range ws {
				if pn, ok := s.m[w]; ok {
					n = pn
					break
				}
			}
			if n < 0 {
				n = s.PinOrNew(ws[0])
			}
			for _, w := range ws {
				pn, ok := s.m[w]
				switch {
				case !ok:
					s.m[w] = n
				case pn != n:
					// w was mapped by our host (two chip outputs fed by the
					// same pin). Costs one extra step.
					cs = append(cs, buffer(n, pn))
				}
			}
		}
	}

	for i, p := range c.parts {
		sub := newSocket(s.c)
		for _, in := range p.Inputs {
			if ws := c.conns[i][in]; len(ws) > 0 {
				sub.m[in] = s.PinOrNew(ws[0])
			} else {
				// unconnected inputs are grounded.
				sub.m[in] = cstFalse
			}
		}
		for _, out := range p.Outputs {
			if ws := c.conns[i][out]; len(ws) > 0 {
				sub.m[out] = s.PinOrNew(ws[0])
			} else {
				sub.m[out] = s.c.allocPin()
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

func buffer(in, out int) Component {
	return func(c *Circuit) { c.Set(out, c.Get(in)) }
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := cosim.Chip(
//		"XOR",
//		cosim.In("a, b"),
//		cosim.Out("out"),
//		cosim.Parts{
//			hwlib.Nand("a=a, b=b, out=nandAB"),
//			hwlib.Nand("a=a, b=nandAB, out=w0"),
//			hwlib.Nand("a=b, b=nandAB, out=w1"),
//			hwlib.Nand("a=w0, b=w1, out=out"),
//		})
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips:
//
//	xnor, err := cosim.Chip(
//		"XNOR",
//		cosim.In("a, b"),
//		cosim.Out("out"),
//		cosim.Parts{
//			xor("a=a, b=b, out=xorAB"),
//			hwlib.Not("in=xorAB, out=out"),
//		})
//
// Chip checks that every wire is driven by exactly one output pin or chip
// input, and that every internal wire is read by at least one input pin.
//
func Chip(name string, inputs Inputs, outputs Outputs, parts Parts) (NewPartFn, error) {
	wr, err := newWiring(inputs, outputs)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	conns := make([]map[string][]string, len(parts))

	for i, p := range parts {
		m, err := p.expand()
		if err != nil {
			return nil, err
		}
		for _, in := range p.Inputs {
			ws := m[in]
			if len(ws) > 1 {
				return nil, errors.New(p.Name + " input pin " + in + " connected to more than one wire")
			}
			if len(ws) == 1 {
				wr.read(ws[0])
			}
		}
		for _, out := range p.Outputs {
			for _, w := range m[out] {
				if err := wr.drive(w, p.Name+"."+out); err != nil {
					return nil, errors.Wrap(err, p.Name+"."+out+":"+w)
				}
			}
		}
		conns[i] = m
	}

	if err = wr.check(); err != nil {
		return nil, err
	}

	c := &chip{
		PartSpec{
			Name:    name,
			Inputs:  inputs,
			Outputs: outputs,
		},
		parts,
		conns,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}

// expand maps each of the part's pins to wire names in the host chip.
//
func (p *Part) expand() (map[string][]string, error) {
	pins := make(map[string]bool, len(p.Inputs)+len(p.Outputs))
	for _, n := range p.Inputs {
		pins[n] = true
	}
	for _, n := range p.Outputs {
		pins[n] = true
	}

	r := make(map[string][]string)
	for _, c := range p.Conns {
		var ks []string
		if c.PP.Whole() && !pins[c.PP.Name] {
			// whole bus
			for i := 0; pins[BusPinName(c.PP.Name, i)]; i++ {
				ks = append(ks, BusPinName(c.PP.Name, i))
			}
		} else {
			ks = c.PP.Pins()
		}
		if len(ks) == 0 {
			return nil, errors.New("invalid pin name " + c.PP.String() + " for part " + p.Name)
		}
		for _, k := range ks {
			if !pins[k] {
				return nil, errors.New("invalid pin name " + k + " for part " + p.Name)
			}
		}

		var vs []string
		switch {
		case !c.CP.Whole():
			vs = c.CP.Pins()
		case c.CP.Name == True || c.CP.Name == False || !c.PP.Whole() || len(ks) == 1:
			vs = []string{c.CP.Name}
		default:
			// bus to bus
			vs = PinRef{Name: c.CP.Name, Start: 0, End: len(ks) - 1}.Pins()
		}

		switch {
		case len(ks) == len(vs):
			// many to many
			for i, k := range ks {
				r[k] = append(r[k], vs[i])
			}
		case len(ks) == 1:
			// one to many
			r[ks[0]] = append(r[ks[0]], vs...)
		case len(vs) == 1:
			// many to one
			for _, k := range ks {
				r[k] = append(r[k], vs[0])
			}
		default:
			return nil, errors.New("pin count mismatch in pin mapping: " + c.PP.String() + "=" + c.CP.String())
		}
	}
	return r, nil
}
