// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	hw "github.com/db47h/cosim"
	hl "github.com/db47h/cosim/hwlib"
	"github.com/db47h/cosim/hwtest"
)

func TestComparePart(t *testing.T) {
	or, err := hw.Chip("custom_or", hw.In("a, b"), hw.Out("out"), hw.Parts{
		hl.Nand("a=a, b=a, out=notA"),
		hl.Nand("a=b, b=b, out=notB"),
		hl.Nand("a=notA, b=notB, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	// input probe + 2 gate levels + output probe
	hwtest.ComparePart(t, 4, hl.Or, or)
}

func TestComparePart_clocked(t *testing.T) {
	reg, err := hw.Chip("REG2", hw.In("clk, in[2]"), hw.Out("out[2]"), hw.Parts{
		hl.DFF("clk=clk, in=in[0], out=out[0]"),
		hl.DFF("clk=clk, in=in[1], out=out[1]"),
	})
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 4, hl.DFFN(2), reg)
}
