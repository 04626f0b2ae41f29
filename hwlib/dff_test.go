package hwlib_test

import (
	"testing"

	hw "github.com/db47h/cosim"
	hl "github.com/db47h/cosim/hwlib"
	"github.com/db47h/cosim/hwtest"
	"pgregory.net/rand"
)

// halfCycle is the number of steps per clock half cycle used in these tests.
const halfCycle = 5

type clockedCircuit struct {
	*hw.Circuit
	clk bool
}

// tick runs a whole clock cycle, rising edge first.
func (c *clockedCircuit) tick() {
	c.clk = true
	c.Run(halfCycle)
	c.clk = false
	c.Run(halfCycle)
}

func TestDFF(t *testing.T) {
	var in, out int64
	cc := new(clockedCircuit)

	dff4, err := hw.Chip("DFF4", hw.In("clk, in[4]"), hw.Out("out[4]"), hw.Parts{
		hl.DFF("clk=clk, in=in[0], out=out[0]"),
		hl.DFF("clk=clk, in=in[1], out=out[1]"),
		hl.DFF("clk=clk, in=in[2], out=out[2]"),
		hl.DFF("clk=clk, in=in[3], out=out[3]"),
	})
	if err != nil {
		t.Fatal(err)
	}

	c, err := hw.NewCircuit(0, hw.Parts{
		hl.Input(func() bool { return cc.clk })("out=clk"),
		hl.InputN(4, func() int64 { return in })("out=in"),
		dff4("clk=clk, in=in, out=out"),
		hl.OutputN(4, func(o int64) { out = o })("in=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	cc.Circuit = c

	for i := int64(15); i >= 0; i-- {
		in = i
		c.Run(halfCycle)
		if i != 15 && out != i+1 {
			t.Fatalf("output changed before the clock edge: expected %d, got %d", i+1, out)
		}
		cc.tick()
		if out != i {
			t.Fatalf("bad output for input %d: got %d", i, out)
		}
	}

	hwtest.ComparePart(t, halfCycle, hl.DFFN(4), dff4)
}

func Test_bit_register(t *testing.T) {
	reg, err := hw.Chip("BitReg", hw.In("clk, in, load"), hw.Out("out"), hw.Parts{
		hl.Mux("a=out, b=in, sel=load, out=muxOut"),
		hl.DFF("clk=clk, in=muxOut, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}

	var in, load, out bool
	cc := new(clockedCircuit)

	c, err := hw.NewCircuit(0, hw.Parts{
		hl.Input(func() bool { return cc.clk })("out=clk"),
		hl.Input(func() bool { return in })("out=dffI"),
		hl.Input(func() bool { return load })("out=dffLD"),
		reg("clk=clk, in=dffI, load=dffLD, out=dffO"),
		hl.Output(func(b bool) { out = b })("in=dffO"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	cc.Circuit = c

	rnd := rand.New(42)
	p := false
	for i := 0; i < 1000; i++ {
		in = rnd.Uint64()&1 != 0
		load = rnd.Uint64()&1 != 0
		c.Run(halfCycle)
		cc.tick()
		if load {
			p = in
		}
		if p != out {
			t.Fatalf("iteration %d: expected %v, got %v", i, p, out)
		}
	}
}
