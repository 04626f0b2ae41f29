// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	hw "github.com/db47h/cosim"
	"github.com/db47h/cosim/tb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRunAll(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	tests := []tb.Test{
		{Name: "pass", Func: func(t *tb.Task, dut *tb.DUT) error {
			return t.Await(tb.Timer(5))
		}},
		{Name: "fail", Func: func(t *tb.Task, dut *tb.DUT) error {
			return tb.AssertEqual(15, dut.Signal("q").Int())
		}},
		{Name: "error", Func: func(t *tb.Task, dut *tb.DUT) error {
			return errors.New("boom")
		}},
	}
	rs := tb.RunAll(context.Background(), reg4(t), tests, tb.WithLogger(log))
	if assert.Len(t, rs, 3) {
		assert.Equal(t, tb.Passed, rs[0].Status)
		assert.Equal(t, uint64(5), rs[0].SimTime)
		assert.Equal(t, "ns", rs[0].Unit)
		assert.Equal(t, tb.Failed, rs[1].Status)
		assert.EqualError(t, rs[1].Err, "Expected 15, got 0")
		assert.Equal(t, tb.Errored, rs[2].Status)
	}
	assert.Contains(t, buf.String(), `"msg":"test passed","test":"pass"`)
	assert.Contains(t, buf.String(), `"msg":"test failed","test":"fail"`)
}

func TestRun_badDUT(t *testing.T) {
	p := &hw.PartSpec{Name: "BAD", Inputs: hw.Inputs{"a[1]"}}
	r := tb.Run(context.Background(), p.NewPart, tb.Test{Name: "x", Func: func(*tb.Task, *tb.DUT) error { return nil }})
	assert.Equal(t, tb.Errored, r.Status)
	assert.Error(t, r.Err)
}

func TestRunAll_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rs := tb.RunAll(ctx, reg4(t), []tb.Test{{Name: "x"}})
	assert.Empty(t, rs)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "PASS", tb.Passed.String())
	assert.Equal(t, "FAIL", tb.Failed.String())
	assert.Equal(t, "ERROR", tb.Errored.String())
}

func TestRun_unit(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	test := tb.Test{Name: "unit", Func: func(t *tb.Task, dut *tb.DUT) error {
		if err := t.Await(tb.Timer(4)); err != nil {
			return err
		}
		t.Log().Info("tick")
		return nil
	}}
	r := tb.Run(context.Background(), reg4(t), test, tb.WithLogger(log), tb.WithUnit("ps"))
	assert.Equal(t, tb.Passed, r.Status)
	assert.Equal(t, "ps", r.Unit)
	assert.Equal(t, uint64(4), r.SimTime)
	assert.Contains(t, buf.String(), `"msg":"tick","task":"unit","sim_time":4,"unit":"ps"`)
	assert.Contains(t, buf.String(), `"msg":"test passed","test":"unit","sim_time":4,"unit":"ps"`)
}
