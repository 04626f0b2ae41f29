// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package tb provides a cooperative, event driven test harness for cosim
circuits.

A Sim wraps a device under test (DUT) into a circuit whose inputs and outputs
are exposed as Signal handles. Test code runs in Tasks: coroutines that
suspend on Triggers (RisingEdge, Timer, ...) and resume when the trigger fires.
Only one task, or the circuit evaluation, runs at any given time, so tasks
never need to synchronize.

One simulation step is one time unit. Within a step, tasks run first, then the
circuit is evaluated once. Signal writes are immediate and become visible to
the circuit on the next evaluation.

A test procedure typically looks like this:

	func(t *tb.Task, dut *tb.DUT) error {
		clk := dut.Signal("clk")
		t.StartSoon("clock", tb.NewClock(clk, 10).Start)
		dut.Signal("in").Set(42)
		if err := t.Await(tb.ClockCycles(clk, 2)); err != nil {
			return err
		}
		return tb.AssertEqual(42, dut.Signal("out").Int())
	}

*/
package tb
