// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"io"
	"log/slog"
)

// DefaultMaxTime is the default upper bound of simulated time units.
//
const DefaultMaxTime = 1000000

// An Option configures a Sim.
//
type Option func(*options)

type options struct {
	log     *slog.Logger
	unit    string
	workers int
	maxTime uint64
}

func defaultOptions() options {
	return options{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		unit:    "ns",
		workers: 1,
		maxTime: DefaultMaxTime,
	}
}

// WithLogger sets the logger used by the simulator and handed out to tasks.
// Logs are discarded by default.
//
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithUnit sets the name of the time unit. It is only used for reporting.
// Defaults to "ns".
//
func WithUnit(unit string) Option {
	return func(o *options) {
		if unit != "" {
			o.unit = unit
		}
	}
}

// WithWorkers sets the number of goroutines updating the circuit. Small
// designs run faster with a single worker, which is the default.
//
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithMaxTime bounds the simulated time. A value of 0 removes the limit.
//
func WithMaxTime(t uint64) Option {
	return func(o *options) { o.maxTime = t }
}
