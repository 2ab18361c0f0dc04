package window

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrClosed is returned when work is submitted to a closed window.
	ErrClosed = errors.New("window: event loop has been closed")

	// ErrAlreadyRunning is returned when Run or RunPending is called while the
	// event loop is being driven by someone else.
	ErrAlreadyRunning = errors.New("window: event loop is already running")
)

// MinInterval is the lower bound for timer delays. Shorter delays are clamped.
const MinInterval = time.Millisecond

// TimerID identifies a timer created by SetTimeout or SetInterval.
// The zero value never identifies a live timer.
type TimerID uint64

// Task is a unit of work executed on the event loop.
type Task func()

// loop states
const (
	stateIdle int32 = iota
	stateRunning
	stateClosed
)

// Window is a scheduling context: a cooperative event loop executing tasks,
// microtasks and timer callbacks one at a time, on a single goroutine.
//
// A Window is driven either by Run, which blocks until the context is done or
// the window is closed, or manually by RunPending. All other methods are safe
// for concurrent use.
type Window struct {
	mu         sync.Mutex
	tasks      []Task
	microtasks []Task
	timers     map[TimerID]*timer
	nextID     TimerID
	wake       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
	state      int32
	name       string
}

type timer struct {
	id       TimerID
	task     Task
	delay    time.Duration
	repeat   bool
	deadline *time.Timer
}

// Option configures a Window.
type Option func(*Window)

// WithName sets a name for the window, which is used in traces.
func WithName(name string) Option {
	return func(w *Window) {
		w.name = name
	}
}

// New creates an idle event loop. Tasks and timers may be registered before
// the loop starts running; they will be processed as soon as it does.
func New(opts ...Option) *Window {
	w := &Window{
		timers: make(map[TimerID]*timer),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		name:   "window",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Window) String() string {
	return w.name
}

// Run drives the event loop until ctx is done or the window is closed.
// When Run returns, the window is closed and all timers are cancelled.
// Done is closed after the last trace of the window has been written.
func (w *Window) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&w.state, stateIdle, stateRunning) {
		if atomic.LoadInt32(&w.state) == stateClosed {
			return ErrClosed
		}
		return ErrAlreadyRunning
	}
	tracer().Debugf("%s: event loop starts", w.name)
	defer w.Close()
	for {
		w.tick()
		select {
		case <-ctx.Done():
			tracer().Debugf("%s: event loop stops: %v", w.name, ctx.Err())
			return ctx.Err()
		case <-w.done:
			return nil
		case <-w.wake:
		}
	}
}

// RunPending executes all tasks and microtasks which are currently queued
// (including those queued while executing them), on the caller's goroutine.
// Timers which have not yet expired are not waited for.
// It is intended for tests and for embedding the window into a foreign loop.
func (w *Window) RunPending() error {
	if !atomic.CompareAndSwapInt32(&w.state, stateIdle, stateRunning) {
		if atomic.LoadInt32(&w.state) == stateClosed {
			return ErrClosed
		}
		return ErrAlreadyRunning
	}
	defer atomic.CompareAndSwapInt32(&w.state, stateRunning, stateIdle)
	for w.tick() {
	}
	return nil
}

// tick runs one batch of tasks, draining microtasks after each of them.
// It returns false if there was nothing to do.
func (w *Window) tick() bool {
	worked := w.drainMicrotasks()
	w.mu.Lock()
	batch := w.tasks
	w.tasks = nil
	w.mu.Unlock()
	for _, task := range batch {
		if w.Closed() {
			return false
		}
		w.execute(task)
		w.drainMicrotasks()
		worked = true
	}
	return worked
}

func (w *Window) drainMicrotasks() bool {
	worked := false
	for {
		w.mu.Lock()
		if len(w.microtasks) == 0 {
			w.mu.Unlock()
			return worked
		}
		task := w.microtasks[0]
		w.microtasks = w.microtasks[1:]
		w.mu.Unlock()
		w.execute(task)
		worked = true
	}
}

// execute runs a task and keeps the loop alive if the task panics.
func (w *Window) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("%s: task panicked: %v", w.name, r)
		}
	}()
	task()
}

// Close stops the event loop and cancels all pending timers.
// Queued tasks are dropped. Close may be called more than once.
func (w *Window) Close() {
	w.closeOnce.Do(func() {
		atomic.StoreInt32(&w.state, stateClosed)
		w.mu.Lock()
		for id, t := range w.timers {
			if t.deadline != nil {
				t.deadline.Stop()
			}
			delete(w.timers, id)
		}
		w.tasks, w.microtasks = nil, nil
		w.mu.Unlock()
		tracer().Debugf("%s: closed", w.name)
		close(w.done)
	})
}

// Closed returns true if the window has been closed.
func (w *Window) Closed() bool {
	return atomic.LoadInt32(&w.state) == stateClosed
}

// Done returns a channel which is closed when the window is closed.
func (w *Window) Done() <-chan struct{} {
	return w.done
}

// Submit queues a task for execution on the event loop.
func (w *Window) Submit(task Task) error {
	if task == nil {
		return nil
	}
	w.mu.Lock()
	if w.Closed() {
		w.mu.Unlock()
		return ErrClosed
	}
	w.tasks = append(w.tasks, task)
	w.mu.Unlock()
	w.signal()
	return nil
}

// QueueMicrotask queues a task to be run after the currently executing task
// and before any other task or timer callback.
// Microtasks queued to a closed window are dropped.
func (w *Window) QueueMicrotask(task Task) {
	if task == nil {
		return
	}
	w.mu.Lock()
	if w.Closed() {
		w.mu.Unlock()
		return
	}
	w.microtasks = append(w.microtasks, task)
	w.mu.Unlock()
	w.signal()
}

func (w *Window) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
