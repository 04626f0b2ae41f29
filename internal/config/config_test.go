// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/cosim/accel"
	"github.com/db47h/cosim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, accel.DefaultConfig(), c.Accel())
	assert.Equal(t, "gate", c.Model)
	assert.Equal(t, "ns", c.Sim.Unit)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accelsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: behavioral
stimulus:
  a: 200
  settle_cycles: 3
log:
  format: json
  level: debug
`), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "behavioral", c.Model)
	assert.Equal(t, int64(200), c.Stimulus.A)
	assert.Equal(t, int64(5), c.Stimulus.B)
	assert.Equal(t, 3, c.Stimulus.SettleCycles)
	assert.Equal(t, uint64(10), c.Stimulus.Period)
	assert.Equal(t, "json", c.Log.Format)
}

func TestLoad_missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestParse_minPeriod(t *testing.T) {
	c, err := config.Parse([]byte("model: gate-mux\nstimulus: {period: 3}"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), c.Accel().Period)
	assert.Equal(t, accel.ModelGateMux, c.Model)
}

func TestParse_empty(t *testing.T) {
	c, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestParse_errors(t *testing.T) {
	td := []struct {
		name string
		yaml string
		err  string
	}{
		{"unknown_field", "foo: 1", "failed to parse config"},
		{"model", "model: rtl", `invalid model "rtl"`},
		{"period", "stimulus: {period: 1}", "clock period must be at least 3, got 1"},
		{"period_min", "stimulus: {period: 2}", "clock period must be at least 3, got 2"},
		{"reset", "stimulus: {reset_cycles: 0}", "reset_cycles must be at least 1, got 0"},
		{"settle", "stimulus: {settle_cycles: -1}", "settle_cycles must not be negative, got -1"},
		{"a", "stimulus: {a: 256}", "operand a out of range [0, 255]: 256"},
		{"b", "stimulus: {b: -1}", "operand b out of range [0, 255]: -1"},
		{"repeat", "stimulus: {repeat: 0}", "repeat must be at least 1, got 0"},
		{"format", "log: {format: xml}", `invalid log format "xml"`},
		{"level", "log: {level: loud}", `invalid log level "loud"`},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := config.Parse([]byte(d.yaml))
			assert.ErrorContains(t, err, d.err)
		})
	}
}

func TestLog_Logger(t *testing.T) {
	var buf bytes.Buffer
	l, err := config.Log{Format: "json", Level: "warn"}.Logger(&buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown","k":1`)

	buf.Reset()
	l, err = config.Log{Format: "text", Level: "debug"}.Logger(&buf)
	require.NoError(t, err)
	l.Debug("hello")
	assert.Contains(t, buf.String(), "level=DEBUG msg=hello")
}
