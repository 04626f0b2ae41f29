// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the accelsim configuration.
//
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/db47h/cosim/accel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the accelsim configuration. Zero values in a configuration file
// do not override defaults for fields that are omitted.
//
type Config struct {
	Model    string   `yaml:"model"`
	Sim      Sim      `yaml:"sim"`
	Stimulus Stimulus `yaml:"stimulus"`
	Log      Log      `yaml:"log"`
}

// Sim holds the simulator settings.
//
type Sim struct {
	Unit    string `yaml:"unit"`
	Workers int    `yaml:"workers"`
	MaxTime uint64 `yaml:"max_time"`
}

// Stimulus holds the test procedure settings.
//
type Stimulus struct {
	Period       uint64 `yaml:"period"`
	ResetCycles  int    `yaml:"reset_cycles"`
	SettleCycles int    `yaml:"settle_cycles"`
	A            int64  `yaml:"a"`
	B            int64  `yaml:"b"`
	Repeat       int    `yaml:"repeat"`
	Samples      int    `yaml:"samples"`
	Seed         uint64 `yaml:"seed"`
}

// Log holds the logger settings.
//
type Log struct {
	Format string `yaml:"format"` // text or json
	Level  string `yaml:"level"`  // debug, info, warn or error
}

// Default returns the default configuration.
//
func Default() Config {
	ac := accel.DefaultConfig()
	return Config{
		Model: accel.ModelGate,
		Sim: Sim{
			Unit:    "ns",
			Workers: 1,
			MaxTime: 1000000,
		},
		Stimulus: Stimulus{
			Period:       ac.Period,
			ResetCycles:  ac.ResetCycles,
			SettleCycles: ac.SettleCycles,
			A:            ac.A,
			B:            ac.B,
			Repeat:       ac.Repeat,
			Samples:      ac.Samples,
			Seed:         ac.Seed,
		},
		Log: Log{Format: "text", Level: "info"},
	}
}

// Load reads the YAML configuration file at path on top of the default
// configuration and validates the result.
//
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config")
	}
	return Parse(data)
}

// Parse parses a YAML configuration on top of the default configuration.
// Unknown fields are rejected.
//
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	maxOperand := int64(1)<<accel.OperandBits - 1
	s := &c.Stimulus
	switch {
	case !validModel(c.Model):
		return errors.Errorf("invalid model %q", c.Model)
	case c.Sim.Workers < 0:
		return errors.Errorf("invalid worker count %d", c.Sim.Workers)
	case s.Period < accel.MinPeriod:
		return errors.Errorf("clock period must be at least %d, got %d", accel.MinPeriod, s.Period)
	case s.ResetCycles < 1:
		return errors.Errorf("reset_cycles must be at least 1, got %d", s.ResetCycles)
	case s.SettleCycles < 0:
		return errors.Errorf("settle_cycles must not be negative, got %d", s.SettleCycles)
	case s.A < 0 || s.A > maxOperand:
		return errors.Errorf("operand a out of range [0, %d]: %d", maxOperand, s.A)
	case s.B < 0 || s.B > maxOperand:
		return errors.Errorf("operand b out of range [0, %d]: %d", maxOperand, s.B)
	case s.Repeat < 1:
		return errors.Errorf("repeat must be at least 1, got %d", s.Repeat)
	case s.Samples < 0:
		return errors.Errorf("samples must not be negative, got %d", s.Samples)
	case c.Log.Format != "text" && c.Log.Format != "json":
		return errors.Errorf("invalid log format %q", c.Log.Format)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	return nil
}

func validModel(name string) bool {
	for _, m := range accel.Models {
		if m == name {
			return true
		}
	}
	return false
}

// Accel returns the test procedure configuration.
//
func (c *Config) Accel() accel.Config {
	s := c.Stimulus
	return accel.Config{
		Period:       s.Period,
		ResetCycles:  s.ResetCycles,
		SettleCycles: s.SettleCycles,
		A:            s.A,
		B:            s.B,
		Repeat:       s.Repeat,
		Samples:      s.Samples,
		Seed:         s.Seed,
	}
}

func (l Log) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, errors.Wrapf(err, "invalid log level %q", l.Level)
	}
	return lvl, nil
}

// Logger returns a logger writing to w.
//
func (l Log) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
