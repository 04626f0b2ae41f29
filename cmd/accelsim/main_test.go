// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, string, error) {
	var out, errw bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errw)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errw.String(), err
}

func TestList(t *testing.T) {
	out, _, err := execute("list")
	require.NoError(t, err)
	assert.Equal(t, "test_dummy_addition\ntest_random_additions\n", out)
}

func TestRun_all(t *testing.T) {
	out, logs, err := execute("run", "--model", "behavioral", "--samples", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  test_dummy_addition (30ns")
	assert.Contains(t, out, "PASS  test_random_additions")
	assert.Contains(t, logs, "msg=\"dummy addition\"")
	assert.Contains(t, logs, "sum=15")
}

func TestRun_failure(t *testing.T) {
	out, _, err := execute("run", "--settle-cycles", "0", "--log-level", "error", "test_dummy_addition")
	assert.EqualError(t, err, "1 of 1 tests failed")
	assert.Contains(t, out, "FAIL  test_dummy_addition")
	assert.Contains(t, out, "Expected 15, got 0")
}

func TestRun_config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accelsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stimulus: {a: 100, b: 28}\nlog: {format: json}\n"), 0o644))
	out, logs, err := execute("run", "--config", path, "--b", "27", "test_dummy_addition")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  test_dummy_addition")
	assert.Contains(t, logs, `"a":100,"b":27,"sum":127`)
}

func TestRun_errors(t *testing.T) {
	_, _, err := execute("run", "test_nope")
	assert.EqualError(t, err, `unknown test "test_nope"`)
	_, _, err = execute("run", "--a", "300")
	assert.EqualError(t, err, "operand a out of range [0, 255]: 300")
	_, _, err = execute("run", "--model", "rtl")
	assert.EqualError(t, err, `invalid model "rtl"`)
	_, _, err = execute("run", "--period", "2")
	assert.EqualError(t, err, "clock period must be at least 3, got 2")
	out, _, err := execute("run", "--model", "gate-mux", "--period", "3", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  test_dummy_addition (9ns")
}
