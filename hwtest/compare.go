// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/db47h/cosim"
	"github.com/db47h/cosim/hwlib"
	"pgregory.net/rand"
)

// ClockPin is the name of the input pin that ComparePart drives as a clock.
//
const ClockPin = "clk"

func connString(pins ...[]string) string {
	var b strings.Builder
	for _, ps := range pins {
		for _, n := range ps {
			if b.Len() > 0 {
				b.WriteRune(',')
			}
			b.WriteString(n)
			b.WriteRune('=')
			b.WriteString(n)
		}
	}
	return b.String()
}

// wrap packages a part together with probes for each of its outputs.
func wrap(t *testing.T, name string, ps cosim.Part, outputs [][2]bool, idx int) cosim.NewPartFn {
	t.Helper()
	parts := cosim.Parts{ps}
	for i, o := range ps.Outputs {
		n := i
		parts = append(parts, hwlib.Output(func(b bool) { outputs[n][idx] = b })("in="+o))
	}
	w, err := cosim.Chip(name, ps.Inputs, nil, parts)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// ComparePart takes two parts and compares their outputs given the same
// random inputs. Both parts must have the same Input/Output interface.
//
// steps is the number of simulation steps needed for the outputs of the
// parts to settle after an input change. If the parts have a clk input, it is
// driven as a clock: each iteration changes the inputs with clk low, lets
// them settle, raises clk and compares outputs after another steps.
//
func ComparePart(t *testing.T, steps int, part1 cosim.NewPartFn, part2 cosim.NewPartFn) {
	t.Helper()

	seed := uint64(time.Now().UnixNano())
	rnd := rand.New(seed)

	ps1, ps2 := part1(""), part2("")
	// compare specs
	if len(ps1.Inputs) != len(ps2.Inputs) {
		t.Fatal("len(ps1.Inputs) != len(ps2.Inputs)")
	}
	if len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatal("len(ps1.Outputs) != len(ps2.Outputs)")
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[i] = %q != ps2.Inputs[i] = %q", ps1.Inputs[i], ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[i] = %q != ps2.Outputs[i] = %q", ps1.Outputs[i], ps2.Outputs[i])
		}
	}

	conns := connString(ps1.Inputs, ps1.Outputs)
	ps1, ps2 = part1(conns), part2(conns)

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))
	clk := -1

	w1 := wrap(t, "wrapper1", ps1, outputs, 0)
	w2 := wrap(t, "wrapper2", ps2, outputs, 1)

	var parts cosim.Parts
	for i, n := range ps1.Inputs {
		k := i
		if n == ClockPin {
			clk = k
		}
		parts = append(parts, hwlib.Input(func() bool { return inputs[k] })("out="+n))
	}
	cstr := connString(ps1.Inputs)
	parts = append(parts, w1(cstr), w2(cstr))

	c, err := cosim.NewCircuit(0, parts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(oname string, ex, got bool) string {
		var b strings.Builder
		for i, n := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n)
			b.WriteRune('=')
			if inputs[i] {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
		return fmt.Sprintf("\nExpected %s => %s=%v\nGot %v (seed %d)", b.String(), oname, ex, got, seed)
	}

	check := func() {
		t.Helper()
		if clk >= 0 {
			inputs[clk] = false
			c.Run(steps)
			inputs[clk] = true
		}
		c.Run(steps)
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatal(errString(ps1.Outputs[o], out[0], out[1]))
			}
		}
	}

	iter := len(inputs)
	if iter > 12 {
		iter = 12
	}
	iter = 1 << uint(iter)

	start := time.Now()

	// try all 0
	check()

	// try all 1
	for in := range inputs {
		inputs[in] = true
	}
	check()

	for i := 0; i < iter; i++ {
		for in := range inputs {
			inputs[in] = rnd.Uint64()&1 != 0
		}
		check()
	}

	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v => %.2f steps/s", c.Size(), c.Steps(), elapsed, float64(c.Steps())/elapsed.Seconds())
}
