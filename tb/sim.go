// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tb

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"

	"github.com/db47h/cosim"
	"github.com/pkg/errors"
)

type timerEntry struct {
	at   uint64
	seq  uint64
	task *Task
}

// timerQueue is a min-heap of timers ordered by expiry time, then by
// creation order.
type timerQueue []timerEntry

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q timerQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x interface{}) { *q = append(*q, x.(timerEntry)) }
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old) - 1
	e := old[n]
	*q = old[:n]
	return e
}

// Sim is a simulation session for a single DUT.
//
// Each time step runs as follows: timers due at the current time fire, ready
// tasks run in FIFO order until all of them are suspended or done, the
// circuit is evaluated once, then time advances by one unit. Changes of DUT
// outputs are visible to tasks at the beginning of the next time step.
//
type Sim struct {
	circuit  *cosim.Circuit
	dut      DUT
	observed []*Signal
	log      *slog.Logger
	unit     string
	maxTime  uint64

	now    uint64
	seq    uint64
	timers timerQueue
	ready  []*Task

	current *Task
	yield   chan struct{}
	quit    chan struct{}
	wg      sync.WaitGroup
	err     error
	ran     bool
}

// New creates a new simulation session for the part returned by dut.
//
// Callers must call Close once done with the session. Run does it
// automatically.
//
func New(dut cosim.NewPartFn, opts ...Option) (*Sim, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Sim{
		log:     o.log,
		unit:    o.unit,
		maxTime: o.maxTime,
		yield:   make(chan struct{}),
		quit:    make(chan struct{}),
	}
	parts, err := s.dut.bind(s, dut)
	if err != nil {
		return nil, err
	}
	s.circuit, err = cosim.NewCircuit(o.workers, parts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build circuit for %s", s.dut.name)
	}
	s.log.Debug("simulation created", "dut", s.dut.name, "components", s.circuit.Size())
	return s, nil
}

// DUT returns the device under test.
//
func (s *Sim) DUT() *DUT { return &s.dut }

// Now returns the current simulated time.
//
func (s *Sim) Now() uint64 { return s.now }

// Unit returns the name of the time unit.
//
func (s *Sim) Unit() string { return s.unit }

// Logger returns the simulator's logger.
//
func (s *Sim) Logger() *slog.Logger { return s.log }

// StartSoon creates a new task running fn and schedules it to run in the
// current time step, after the tasks already scheduled.
//
func (s *Sim) StartSoon(name string, fn TaskFunc) *Task {
	t := &Task{
		sim:  s,
		name: name,
		fn:   fn,
		wake: make(chan struct{}),
	}
	s.schedule(t)
	return t
}

func (s *Sim) schedule(t *Task) {
	if t.done || t.queued {
		return
	}
	t.queued = true
	s.ready = append(s.ready, t)
}

func (s *Sim) addTimer(at uint64, t *Task) {
	s.seq++
	heap.Push(&s.timers, timerEntry{at: at, seq: s.seq, task: t})
}

// resume runs t until it suspends or returns.
func (s *Sim) resume(t *Task) {
	t.queued = false
	s.current = t
	if !t.started {
		t.started = true
		s.wg.Add(1)
		go t.run()
	}
	t.wake <- struct{}{}
	<-s.yield
	s.current = nil
	if t.done {
		s.finish(t)
	}
}

func (s *Sim) finish(t *Task) {
	for _, j := range t.joiners {
		s.schedule(j)
	}
	t.joiners = nil
	if t.err != nil {
		s.log.Debug("task failed", "task", t.name, "sim_time", s.now, "error", t.err)
		if s.err == nil && errors.Cause(t.err) != ErrSimEnded {
			s.err = t.err
		}
		return
	}
	s.log.Debug("task done", "task", t.name, "sim_time", s.now)
}

func (s *Sim) stalled() bool {
	if len(s.ready) > 0 || len(s.timers) > 0 {
		return false
	}
	for _, sig := range s.observed {
		if len(sig.waiters) > 0 {
			return false
		}
	}
	return true
}

// Run runs fn as the main task of the simulation and returns its result. The
// simulation ends when the main task returns, in which case any other task
// still running is terminated. Run also returns early with an error if:
//
//	- another task returns an error (other than ErrSimEnded),
//	- ctx is cancelled,
//	- no pending event can resume any task (ErrStalled),
//	- the simulated time reaches the maximum (ErrMaxTime).
//
// Run closes the Sim before returning. It can only be called once.
//
func (s *Sim) Run(ctx context.Context, name string, fn TaskFunc) error {
	if s.ran {
		return errors.New("simulation already run")
	}
	s.ran = true
	defer s.Close()

	main := s.StartSoon(name, fn)
	for {
		for len(s.ready) > 0 && !main.done && s.err == nil {
			t := s.ready[0]
			s.ready[0] = nil
			s.ready = s.ready[1:]
			s.resume(t)
		}
		switch {
		case main.done:
			return main.err
		case s.err != nil:
			return s.err
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "simulation interrupted at %d%s", s.now, s.unit)
		}
		if s.stalled() {
			return errors.Wrapf(ErrStalled, "task %s waiting on %v at %d%s", main.name, main.waiting, s.now, s.unit)
		}
		if s.maxTime > 0 && s.now >= s.maxTime {
			return errors.Wrapf(ErrMaxTime, "%d%s", s.now, s.unit)
		}

		s.circuit.Step()
		s.now++
		for _, sig := range s.observed {
			sig.latch()
		}
		for len(s.timers) > 0 && s.timers[0].at <= s.now {
			e := heap.Pop(&s.timers).(timerEntry)
			s.schedule(e.task)
		}
	}
}

// Close terminates all running tasks and releases the circuit. Tasks
// suspended in Await get ErrSimEnded.
//
func (s *Sim) Close() {
	select {
	case <-s.quit:
		return
	default:
	}
	close(s.quit)
	s.wg.Wait()
	if s.circuit != nil {
		s.circuit.Dispose()
	}
}
