package cosim_test

import (
	"testing"

	hw "github.com/db47h/cosim"
	hl "github.com/db47h/cosim/hwlib"
	"github.com/db47h/cosim/hwtest"
)

type testPart struct {
	A   [4]int `hw:"in"`
	B   [4]int `hw:"in"`
	Sel int    `hw:"in"`
	Out [4]int `hw:"out"`
}

func (t *testPart) Update(c *hw.Circuit) {
	src := t.A
	if c.Get(t.Sel) {
		src = t.B
	}
	for i, pin := range src {
		c.Set(t.Out[i], c.Get(pin))
	}
}

type counter struct {
	Clk  int    `hw:"in"`
	Rst  int    `hw:"in,reset"`
	Q    [3]int `hw:"out,q"`
	prev bool
	n    int64
}

func (t *counter) Update(c *hw.Circuit) {
	if clk := c.Get(t.Clk); clk != t.prev {
		t.prev = clk
		if clk {
			t.n++
		}
	}
	if c.Get(t.Rst) {
		t.n = 0
	}
	hl.SetInt64(c, t.Q[:], t.n)
}

func Test_MakePart(t *testing.T) {
	m, err := hw.Chip("myMux4", hw.In("a[4], b[4], sel"), hw.Out("out[4]"), hw.Parts{
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hl.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hl.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	})
	if err != nil {
		t.Fatal(err)
	}

	p := hw.MakePart((*testPart)(nil)).NewPart
	hwtest.ComparePart(t, 4, m, p)
}

func Test_MakePart_state(t *testing.T) {
	spec := hw.MakePart(&counter{})
	if spec.Name != "counter" {
		t.Fatalf("expected part name counter, got %q", spec.Name)
	}
	if len(spec.Inputs) != 2 || spec.Inputs[1] != "reset" {
		t.Fatalf("unexpected inputs %v", spec.Inputs)
	}
	if len(spec.Outputs) != 3 || spec.Outputs[2] != "q[2]" {
		t.Fatalf("unexpected outputs %v", spec.Outputs)
	}

	var clk bool
	var q1, q2 int64
	c, err := hw.NewCircuit(0, hw.Parts{
		hl.Input(func() bool { return clk })("out=clk"),
		spec.NewPart("clk=clk, reset=false, q=q1"),
		spec.NewPart("clk=clk, reset=false, q=q2"),
		hl.OutputN(3, func(v int64) { q1 = v })("in=q1"),
		hl.OutputN(3, func(v int64) { q2 = v })("in=q2"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	for i := 1; i <= 5; i++ {
		clk = true
		c.Run(3)
		clk = false
		c.Run(3)
		if q1 != int64(i) || q2 != int64(i) {
			t.Fatalf("cycle %d: got q1=%d, q2=%d", i, q1, q2)
		}
	}
}

func Test_MakePart_panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	hw.MakePart(badPart(0))
}

type badPart int

func (badPart) Update(*hw.Circuit) {}
