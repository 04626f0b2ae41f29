package hwlib_test

import (
	"testing"

	hw "github.com/db47h/cosim"
	hl "github.com/db47h/cosim/hwlib"
	"github.com/db47h/cosim/hwtest"
)

func TestHalfAdder(t *testing.T) {
	h, err := hw.Chip("myHalfAdder", hw.In("a, b"), hw.Out("s, c"), hw.Parts{
		hl.Xor("a=a, b=b, out=s"),
		hl.And("a=a, b=b, out=c"),
	})
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, testSteps, hl.HalfAdder, h)
}

func TestFullAdder(t *testing.T) {
	h, err := hw.Chip("myHalfAdder", hw.In("a, b"), hw.Out("s, c"), hw.Parts{
		hl.Xor("a=a, b=b, out=s"),
		hl.And("a=a, b=b, out=c"),
	})
	if err != nil {
		t.Fatal(err)
	}
	adder, err := hw.Chip("myFullAdder", hw.In("a, b, cin"), hw.Out("s, cout"), hw.Parts{
		h("a=a, b=b, s=s0, c=c0"),
		h("a=s0, b=cin, s=s, c=c1"),
		hl.Or("a=c0, b=c1, out=cout"),
	})
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, testSteps, hl.FullAdder, adder)
}

func TestAdderN(t *testing.T) {
	add4, err := hw.Chip("Adder4", hw.In("a[4], b[4]"), hw.Out("out[4], c"), hw.Parts{
		hl.HalfAdder("a=a[0], b=b[0], s=out[0], c=c0"),
		hl.FullAdder("a=a[1], b=b[1], cin=c0, s=out[1], cout=c1"),
		hl.FullAdder("a=a[2], b=b[2], cin=c1, s=out[2], cout=c2"),
		hl.FullAdder("a=a[3], b=b[3], cin=c2, s=out[3], cout=c"),
	})
	if err != nil {
		t.Fatal(err)
	}
	// ripple carry: one step per bit.
	hwtest.ComparePart(t, 2*testSteps, hl.AdderN(4), add4)
}

func TestAdderN_values(t *testing.T) {
	var a, b, out int64
	c, err := hw.NewCircuit(1, hw.Parts{
		hl.InputN(8, func() int64 { return a })("out=a"),
		hl.InputN(8, func() int64 { return b })("out=b"),
		hl.AdderN(8)("a=a, b=b, out=s[0..7], c=s[8]"),
		hl.OutputN(9, func(v int64) { out = v })("in=s"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	td := [][3]int64{
		{0, 0, 0},
		{10, 5, 15},
		{255, 1, 256},
		{255, 255, 510},
		{0x55, 0xaa, 0xff},
	}
	for _, d := range td {
		a, b = d[0], d[1]
		c.Run(testSteps)
		if out != d[2] {
			t.Errorf("%d + %d: expected %d, got %d", a, b, d[2], out)
		}
	}
}
