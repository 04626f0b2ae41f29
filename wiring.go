// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cosim

import (
	"sort"

	"github.com/pkg/errors"
)

// a wire is a named signal in a chip's namespace.
type wire struct {
	name    string
	driver  string // pin feeding the wire
	input   bool   // chip input or constant
	output  bool   // chip output
	readers int
}

type wiring map[string]*wire

func newWiring(ins Inputs, outs Outputs) (wiring, error) {
	wr := make(wiring, len(ins)+len(outs)+2)
	wr[True] = &wire{name: True, driver: True, input: true}
	wr[False] = &wire{name: False, driver: False, input: true}
	for _, in := range ins {
		if wr[in] != nil {
			return nil, errors.New("duplicate pin name " + in)
		}
		wr[in] = &wire{name: in, driver: in, input: true}
	}
	for _, out := range outs {
		if wr[out] != nil {
			return nil, errors.New("duplicate pin name " + out)
		}
		wr[out] = &wire{name: out, output: true}
	}
	return wr, nil
}

func (wr wiring) get(name string) *wire {
	w := wr[name]
	if w == nil {
		w = &wire{name: name}
		wr[name] = w
	}
	return w
}

func (wr wiring) read(name string) {
	wr.get(name).readers++
}

func (wr wiring) drive(name, pin string) error {
	w := wr.get(name)
	switch {
	case name == True:
		return errors.New("output pin connected to constant true input")
	case name == False:
		return errors.New("output pin connected to constant false input")
	case w.input:
		return errors.New("chip input pin used as output")
	case w.driver != "":
		return errors.New("output pin already used as output")
	}
	w.driver = pin
	return nil
}

// check reports wires that are read but never driven, and internal wires that
// are driven but never read.
//
func (wr wiring) check() error {
	names := make([]string, 0, len(wr))
	for n := range wr {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w := wr[n]
		switch {
		case w.driver == "" && (w.readers > 0 || w.output):
			return errors.New("pin " + n + " not connected to any output")
		case !w.input && !w.output && w.readers == 0:
			return errors.New("pin " + n + " not connected to any input")
		}
	}
	return nil
}
