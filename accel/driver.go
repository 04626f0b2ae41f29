// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package accel

import (
	"github.com/db47h/cosim/tb"
	"github.com/pkg/errors"
	"pgregory.net/rand"
)

// Config parameterizes the test procedures.
//
type Config struct {
	Period       uint64 // clock period in time units, at least MinPeriod
	ResetCycles  int    // rising edges spent in reset
	SettleCycles int    // rising edges between stimulus and check
	A, B         int64  // operands
	Repeat       int    // number of reset/stimulus/check sequences
	Samples      int    // operand pairs applied by RandomAdditions
	Seed         uint64 // RandomAdditions seed
}

// DefaultConfig returns the default test configuration: 10 time units clock
// period, 2 cycles of reset, 2 cycles to settle, and 10 + 5.
//
func DefaultConfig() Config {
	return Config{
		Period:       10,
		ResetCycles:  2,
		SettleCycles: 2,
		A:            10,
		B:            5,
		Repeat:       1,
		Samples:      32,
		Seed:         1,
	}
}

// Expected returns the expected sum.
//
func (c Config) Expected() int64 { return c.A + c.B }

type pins struct {
	clk, rstN, a, b, sum *tb.Signal
}

func dutPins(dut *tb.DUT) pins {
	return pins{
		clk:  dut.Signal("clk"),
		rstN: dut.Signal("rst_n"),
		a:    dut.Signal("a"),
		b:    dut.Signal("b"),
		sum:  dut.Signal("sum"),
	}
}

func startClock(t *tb.Task, p pins, cfg Config) error {
	if cfg.Period < MinPeriod {
		return errors.Errorf("clock period %d too short, the device needs at least %d", cfg.Period, MinPeriod)
	}
	t.StartSoon("clock", tb.NewClock(p.clk, cfg.Period).Start)
	return nil
}

// reset holds the device in reset with zero operands for cfg.ResetCycles
// rising edges, then releases it.
func reset(t *tb.Task, p pins, cfg Config) error {
	p.rstN.Set(0)
	p.a.Set(0)
	p.b.Set(0)
	if err := t.Await(tb.ClockCycles(p.clk, cfg.ResetCycles)); err != nil {
		return err
	}
	p.rstN.Set(1)
	return nil
}

func addition(t *tb.Task, p pins, cfg Config) (int64, error) {
	if err := reset(t, p, cfg); err != nil {
		return 0, err
	}
	p.a.Set(cfg.A)
	p.b.Set(cfg.B)
	if err := t.Await(tb.ClockCycles(p.clk, cfg.SettleCycles)); err != nil {
		return 0, err
	}
	sum := p.sum.Int()
	t.Log().Info("dummy addition", "a", p.a.Int(), "b", p.b.Int(), "sum", sum)
	return sum, tb.AssertEqual(cfg.Expected(), sum)
}

// DummyAddition returns a test procedure that starts a clock, resets the
// device, applies cfg.A and cfg.B and checks the registered sum after
// cfg.SettleCycles rising edges.
//
// With cfg.Repeat > 1, the reset/stimulus/check sequence is run again on
// the same clock and each run must observe the same sum.
//
func DummyAddition(cfg Config) func(t *tb.Task, dut *tb.DUT) error {
	return func(t *tb.Task, dut *tb.DUT) error {
		p := dutPins(dut)
		if err := startClock(t, p, cfg); err != nil {
			return err
		}
		first := int64(-1)
		for i := 0; i < cfg.Repeat || i == 0; i++ {
			sum, err := addition(t, p, cfg)
			if err != nil {
				return err
			}
			if i == 0 {
				first = sum
				continue
			}
			if err = tb.AssertEqual(first, sum, "run %d: expected %d, got %d", i+1, first, sum); err != nil {
				return err
			}
		}
		return nil
	}
}

// RandomAdditions returns a test procedure that applies cfg.Samples random
// operand pairs after reset. A new pair is applied on every check, so that
// operands and sums are pipelined over cfg.SettleCycles clock cycles.
//
func RandomAdditions(cfg Config) func(t *tb.Task, dut *tb.DUT) error {
	return func(t *tb.Task, dut *tb.DUT) error {
		p := dutPins(dut)
		if err := startClock(t, p, cfg); err != nil {
			return err
		}
		if err := reset(t, p, cfg); err != nil {
			return err
		}
		rnd := rand.New(cfg.Seed)
		n := 1 << OperandBits
		for i := 0; i < cfg.Samples; i++ {
			a, b := int64(rnd.Intn(n)), int64(rnd.Intn(n))
			p.a.Set(a)
			p.b.Set(b)
			if err := t.Await(tb.ClockCycles(p.clk, cfg.SettleCycles)); err != nil {
				return err
			}
			if err := tb.AssertEqual(a+b, p.sum.Int(), "%d + %d: expected %d, got %d", a, b, a+b, p.sum.Int()); err != nil {
				return err
			}
		}
		t.Log().Info("random additions", "samples", cfg.Samples, "seed", cfg.Seed)
		return nil
	}
}

// Tests returns the registered tests.
//
func Tests(cfg Config) []tb.Test {
	return []tb.Test{
		{Name: "test_dummy_addition", Func: DummyAddition(cfg)},
		{Name: "test_random_additions", Func: RandomAdditions(cfg)},
	}
}

// Lookup returns the registered test with the given name.
//
func Lookup(cfg Config, name string) (tb.Test, bool) {
	for _, t := range Tests(cfg) {
		if t.Name == name {
			return t, true
		}
	}
	return tb.Test{}, false
}
