// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/db47h/cosim/accel"
	"github.com/db47h/cosim/internal/config"
	"github.com/db47h/cosim/tb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [test...]",
		Short: "Run tests against the DummyAccel device",
		Long:  `Runs the named tests, or all registered tests, each in a fresh simulation. Exits with status 1 if any test fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err = applyFlags(cmd.Flags(), &cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runTests(ctx, cfg, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.String("model", "", "device model: gate, gate-mux or behavioral")
	f.Int64("a", 0, "operand a")
	f.Int64("b", 0, "operand b")
	f.Uint64("period", 0, "clock period in time units")
	f.Int("reset-cycles", 0, "rising edges spent in reset")
	f.Int("settle-cycles", 0, "rising edges between stimulus and check")
	f.Int("repeat", 0, "number of reset/stimulus/check sequences")
	f.Int("samples", 0, "operand pairs applied by test_random_additions")
	f.Uint64("seed", 0, "random seed for test_random_additions")
	f.Int("workers", 0, "circuit worker goroutines")
	f.Uint64("max-time", 0, "maximum simulated time (0 means no limit)")
	f.String("log-format", "", "log format: text or json")
	f.String("log-level", "", "log level: debug, info, warn or error")
	return cmd
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(f *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string, fn func() error) {
		if err == nil && f.Changed(name) {
			err = fn()
		}
	}
	set("model", func() (e error) { cfg.Model, e = f.GetString("model"); return })
	set("a", func() (e error) { cfg.Stimulus.A, e = f.GetInt64("a"); return })
	set("b", func() (e error) { cfg.Stimulus.B, e = f.GetInt64("b"); return })
	set("period", func() (e error) { cfg.Stimulus.Period, e = f.GetUint64("period"); return })
	set("reset-cycles", func() (e error) { cfg.Stimulus.ResetCycles, e = f.GetInt("reset-cycles"); return })
	set("settle-cycles", func() (e error) { cfg.Stimulus.SettleCycles, e = f.GetInt("settle-cycles"); return })
	set("repeat", func() (e error) { cfg.Stimulus.Repeat, e = f.GetInt("repeat"); return })
	set("samples", func() (e error) { cfg.Stimulus.Samples, e = f.GetInt("samples"); return })
	set("seed", func() (e error) { cfg.Stimulus.Seed, e = f.GetUint64("seed"); return })
	set("workers", func() (e error) { cfg.Sim.Workers, e = f.GetInt("workers"); return })
	set("max-time", func() (e error) { cfg.Sim.MaxTime, e = f.GetUint64("max-time"); return })
	set("log-format", func() (e error) { cfg.Log.Format, e = f.GetString("log-format"); return })
	set("log-level", func() (e error) { cfg.Log.Level, e = f.GetString("log-level"); return })
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// runTests runs the named tests, or all tests if names is empty. Results are
// printed to out and logs written to logw. It returns an error if any test
// did not pass.
func runTests(ctx context.Context, cfg config.Config, names []string, out, logw io.Writer) error {
	log, err := cfg.Log.Logger(logw)
	if err != nil {
		return err
	}
	dut, err := accel.Model(cfg.Model)
	if err != nil {
		return err
	}

	ac := cfg.Accel()
	tests := accel.Tests(ac)
	if len(names) > 0 {
		tests = tests[:0]
		for _, n := range names {
			t, ok := accel.Lookup(ac, n)
			if !ok {
				return errors.Errorf("unknown test %q", n)
			}
			tests = append(tests, t)
		}
	}

	rs := tb.RunAll(ctx, dut, tests,
		tb.WithLogger(log),
		tb.WithUnit(cfg.Sim.Unit),
		tb.WithWorkers(cfg.Sim.Workers),
		tb.WithMaxTime(cfg.Sim.MaxTime))

	failed := 0
	for _, r := range rs {
		fmt.Fprintf(out, "%-5s %s (%d%s, %v)\n", r.Status, r.Test, r.SimTime, r.Unit, r.Elapsed.Round(time.Microsecond))
		if r.Status != tb.Passed {
			fmt.Fprintf(out, "      %v\n", r.Err)
			failed++
		}
	}
	if len(rs) < len(tests) {
		return errors.Wrap(ctx.Err(), "test run interrupted")
	}
	if failed > 0 {
		return errors.Errorf("%d of %d tests failed", failed, len(rs))
	}
	return nil
}
