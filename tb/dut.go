// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"strconv"
	"strings"

	"github.com/db47h/cosim"
	"github.com/db47h/cosim/hwlib"
	"github.com/pkg/errors"
)

// DUT is the device under test, as seen by tasks: a set of named signals
// matching the part's input and output pins. Buses are exposed as a single
// multi-bit signal.
//
type DUT struct {
	name    string
	signals []*Signal
	byName  map[string]*Signal
}

// Name returns the name of the DUT's part.
//
func (d *DUT) Name() string { return d.name }

// Signal returns the signal with the given name. It panics if no such
// signal exists.
//
func (d *DUT) Signal(name string) *Signal {
	s, ok := d.byName[name]
	if !ok {
		panic("no signal named " + name + " in " + d.name)
	}
	return s
}

// Lookup returns the signal with the given name.
//
func (d *DUT) Lookup(name string) (*Signal, bool) {
	s, ok := d.byName[name]
	return s, ok
}

// Signals returns all DUT signals, inputs first, in pin declaration order.
//
func (d *DUT) Signals() []*Signal {
	return append([]*Signal(nil), d.signals...)
}

type pinGroup struct {
	name  string
	width int
	bus   bool
}

// groupPins groups bus pins like "a[0]", "a[1]" into a single entry.
func groupPins(pins []string) ([]pinGroup, error) {
	var gs []pinGroup
	idx := make(map[string]int)
	for _, p := range pins {
		name, bit := p, -1
		if i := strings.IndexByte(p, '['); i > 0 && strings.HasSuffix(p, "]") {
			n, err := strconv.Atoi(p[i+1 : len(p)-1])
			if err != nil {
				return nil, errors.Errorf("invalid pin name %s", p)
			}
			name, bit = p[:i], n
		}
		gi, ok := idx[name]
		if !ok {
			gi = len(gs)
			idx[name] = gi
			gs = append(gs, pinGroup{name: name, bus: bit >= 0})
		}
		g := &gs[gi]
		if g.bus != (bit >= 0) {
			return nil, errors.Errorf("pin %s used both as a bus and a single pin", name)
		}
		if !g.bus {
			if ok {
				return nil, errors.Errorf("duplicate pin name %s", name)
			}
			g.width = 1
			continue
		}
		if bit != g.width {
			return nil, errors.Errorf("bus %s: pin %s out of sequence", name, p)
		}
		g.width++
	}
	for _, g := range gs {
		if g.width > MaxWidth {
			return nil, errors.Errorf("bus %s too wide: %d bits", g.name, g.width)
		}
	}
	return gs, nil
}

// bind creates the DUT signals for the given part spec and returns the parts
// needed to drive and observe them in a circuit.
func (d *DUT) bind(s *Sim, newPart cosim.NewPartFn) (cosim.Parts, error) {
	spec := newPart("")
	d.name = spec.Name
	d.byName = make(map[string]*Signal)

	ins, err := groupPins(spec.Inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s inputs", spec.Name)
	}
	outs, err := groupPins(spec.Outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s outputs", spec.Name)
	}

	var parts cosim.Parts
	var conns []string
	add := func(g pinGroup, driven bool) error {
		if _, ok := d.byName[g.name]; ok {
			return errors.Errorf("%s: duplicate signal name %s", spec.Name, g.name)
		}
		sig := newSignal(s, g.name, g.width, driven)
		d.byName[g.name] = sig
		d.signals = append(d.signals, sig)
		conns = append(conns, g.name+"="+g.name)
		switch {
		case driven && g.bus:
			parts = append(parts, hwlib.InputN(g.width, func() int64 { return sig.value })("out="+g.name))
		case driven:
			parts = append(parts, hwlib.Input(func() bool { return sig.value != 0 })("out="+g.name))
		case g.bus:
			parts = append(parts, hwlib.OutputN(g.width, sig.sample)("in="+g.name))
			s.observed = append(s.observed, sig)
		default:
			parts = append(parts, hwlib.Output(func(b bool) {
				if b {
					sig.sample(1)
				} else {
					sig.sample(0)
				}
			})("in="+g.name))
			s.observed = append(s.observed, sig)
		}
		return nil
	}
	for _, g := range ins {
		if err = add(g, true); err != nil {
			return nil, err
		}
	}
	for _, g := range outs {
		if err = add(g, false); err != nil {
			return nil, err
		}
	}
	return append(parts, newPart(strings.Join(conns, ", "))), nil
}
