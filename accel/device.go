// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package accel implements a dummy accelerator device, a registered 8 bits
// adder with synchronous active-low reset, together with its test
// procedures.
//
package accel

import (
	"fmt"

	"github.com/db47h/cosim"
	hl "github.com/db47h/cosim/hwlib"
	"github.com/pkg/errors"
)

// Device interface.
//
const (
	Name        = "DummyAccel"
	OperandBits = 8
	SumBits     = OperandBits + 1
)

// MinPeriod is the shortest clock period, in simulation steps, for which a
// sum latched on a rising edge is observed by the next one: the register sees
// the edge one step late and the harness samples its outputs one step later.
//
const MinPeriod = 3

// Model names accepted by Model.
//
const (
	ModelGate       = "gate"
	ModelGateMux    = "gate-mux"
	ModelBehavioral = "behavioral"
)

// Models lists the accepted model names.
//
var Models = []string{ModelGate, ModelGateMux, ModelBehavioral}

var (
	inputs  = cosim.In(fmt.Sprintf("clk, rst_n, a[%d], b[%d]", OperandBits, OperandBits))
	outputs = cosim.Out(fmt.Sprintf("sum[%d]", SumBits))
)

// GateLevel returns the gate level model of the accelerator.
//
//	Inputs: clk, rst_n, a[8], b[8]
//	Outputs: sum[9]
//	Function: on rising edge of clk: if rst_n { sum = a + b } else { sum = 0 }
//
func GateLevel() (cosim.NewPartFn, error) {
	return cosim.Chip(Name, inputs, outputs, cosim.Parts{
		hl.AdderN(OperandBits)(fmt.Sprintf("a=a, b=b, out=s[0..%d], c=s[%d]", OperandBits-1, OperandBits)),
		hl.AndN(SumBits)(fmt.Sprintf("a=s, b[0..%d]=rst_n, out=d", SumBits-1)),
		hl.DFFN(SumBits)("clk=clk, in=d, out=sum"),
	})
}

// GateLevelMux returns a gate level variant of the accelerator where the
// synchronous reset selects a constant zero with a multiplexer instead of
// masking the adder output.
//
func GateLevelMux() (cosim.NewPartFn, error) {
	return cosim.Chip(Name, inputs, outputs, cosim.Parts{
		hl.AdderN(OperandBits)(fmt.Sprintf("a=a, b=b, out=s[0..%d], c=s[%d]", OperandBits-1, OperandBits)),
		hl.MuxN(SumBits)("a=false, b=s, sel=rst_n, out=d"),
		hl.DFFN(SumBits)("clk=clk, in=d, out=sum"),
	})
}

type dummyAccel struct {
	Clk  int              `hw:"in"`
	RstN int              `hw:"in,rst_n"`
	A    [OperandBits]int `hw:"in"`
	B    [OperandBits]int `hw:"in"`
	Sum  [SumBits]int     `hw:"out"`

	clk  bool
	d, q int64
}

// Update latches the value computed on the previous step, so that values
// changed at the clock edge are not captured.
func (m *dummyAccel) Update(c *cosim.Circuit) {
	if clk := c.Get(m.Clk); clk != m.clk {
		m.clk = clk
		if clk {
			m.q = m.d
		}
	}
	m.d = 0
	if c.Get(m.RstN) {
		m.d = hl.Int64(c, m.A[:]) + hl.Int64(c, m.B[:])
	}
	hl.SetInt64(c, m.Sum[:], m.q)
}

var behavioral = func() *cosim.PartSpec {
	p := cosim.MakePart(&dummyAccel{})
	p.Name = Name
	return p
}()

// Behavioral returns the behavioral model of the accelerator. It has the
// same interface and clock to output latency as the gate level model.
//
func Behavioral() cosim.NewPartFn {
	return behavioral.NewPart
}

// Model returns the accelerator model with the given name.
//
func Model(name string) (cosim.NewPartFn, error) {
	switch name {
	case ModelGate:
		return GateLevel()
	case ModelGateMux:
		return GateLevelMux()
	case ModelBehavioral:
		return Behavioral(), nil
	}
	return nil, errors.Errorf("unknown model %q", name)
}
