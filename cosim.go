// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cosim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. It queries the socket for the pin
// numbers assigned to the part and returns the components that make up the
// part, usually closures over these pin numbers.
//
// A one bit register with a synchronous clear could be mounted like this:
//
//	func(s *Socket) []Component {
//		clk, clr, in, out := s.Pin("clk"), s.Pin("clr"), s.Pin("in"), s.Pin("out")
//		var prev, q bool
//		return []Component{func(c *Circuit) {
//			if v := c.Get(clk); v != prev {
//				prev = v
//				if v {
//					q = c.Get(in) && !c.Get(clr)
//				}
//			}
//			c.Set(out, q)
//		}}
//	}
//
type MountFn func(s *Socket) []Component

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// A PartSpec is a part blueprint: its name, its pin interface and how to
// mount it in a circuit.
//
// The NewPart method of a PartSpec is a NewPartFn that can be used to
// instantiate the part within chips:
//
//	reg := &cosim.PartSpec{
//		Name:    "REG1",
//		Inputs:  cosim.In("clk, clr, in"),
//		Outputs: cosim.Out("out"),
//		Mount:   mountReg,
//	}
//	acc, _ := cosim.Chip("ACC", cosim.In("clk, clr, in"), cosim.Out("out"), cosim.Parts{
//		hwlib.Xor("a=in, b=out, out=t"),
//		reg.NewPart("clk=clk, clr=clr, in=t, out=out"),
//	})
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the In() function to expand an input description like
	// "a, b, bus[2]" to Inputs{"a", "b", "bus[0]", "bus[1]"}
	Inputs Inputs
	// Output pin names. Must be distinct pin names.
	// Use the Out() function to expand an output description string.
	Outputs Outputs

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, conns}
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// Circuit is a mounted, runnable set of components. Wire states are double
// buffered: components read the states of the previous step and write those
// of the next one, so the update order within a step does not matter.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int // wire count
	steps uint64

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit mounts parts into a new top level chip and returns the resulting
// circuit. All wires start low, except the true constant.
//
// Components are evaluated by workers goroutines, GOMAXPROCS if workers <= 0.
// Small circuits, like a single register bank, step faster with one worker.
// Call Dispose to stop the workers.
//
func NewCircuit(workers int, parts Parts) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	top, err := Chip("CIRCUIT", nil, nil, parts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build top level chip")
	}
	// pins 0 and 1 are the false and true constants
	cc := &Circuit{count: cstCount}
	cc.cs = top("").Mount(newSocket(cc))
	cc.s0 = make([]bool, cc.count)
	cc.s1 = make([]bool, cc.count)
	cc.s0[cstTrue], cc.s1[cstTrue] = true, true

	cc.startWorkers(workers)
	return cc, nil
}

// startWorkers splits the components into n roughly equal batches, each
// updated by its own goroutine.
func (c *Circuit) startWorkers(n int) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(-1)
	}
	cs := c.cs
	if n > len(cs) {
		n = len(cs)
	}
	for i := 0; i < n; i++ {
		// spread the remainder over the first batches
		size := len(cs) / (n - i)
		if size*(n-i) < len(cs) {
			size++
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, cs[:size], wc)
		cs = cs[size:]
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint64 {
	return c.steps
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// Step advances the simulation by one step. Every component reads the wire
// states of the previous step and its writes become visible on the next one.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.steps++
	c.s0, c.s1 = c.s1, c.s0
	if c.s0[cstFalse] || !c.s0[cstTrue] {
		panic("true or false constants have been overwritten")
	}
}

// Run advances the simulation by n steps.
//
func (c *Circuit) Run(n int) {
	for ; n > 0; n-- {
		c.Step()
	}
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
