package window

import "time"

// SetTimeout schedules task to run once on the event loop, after at least
// delay has passed. It returns an ID for ClearTimeout, or 0 if the window
// is closed.
func (w *Window) SetTimeout(task Task, delay time.Duration) TimerID {
	return w.schedule(task, delay, false)
}

// ClearTimeout cancels a timer created by SetTimeout. Unknown or already
// cleared IDs are ignored.
func (w *Window) ClearTimeout(id TimerID) {
	w.clear(id)
}

// SetInterval schedules task to run repeatedly on the event loop, every
// interval, until the timer is cleared. It returns an ID for ClearInterval,
// or 0 if the window is closed.
func (w *Window) SetInterval(task Task, interval time.Duration) TimerID {
	return w.schedule(task, interval, true)
}

// ClearInterval cancels a timer created by SetInterval. Unknown or already
// cleared IDs are ignored. A callback clearing its own interval will not
// be called again.
func (w *Window) ClearInterval(id TimerID) {
	w.clear(id)
}

// ActiveTimers returns the number of timers which have not been cleared
// and have not yet fired for the last time.
func (w *Window) ActiveTimers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func (w *Window) schedule(task Task, delay time.Duration, repeat bool) TimerID {
	if task == nil {
		return 0
	}
	if delay < MinInterval {
		delay = MinInterval
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Closed() {
		return 0
	}
	w.nextID++
	t := &timer{id: w.nextID, task: task, delay: delay, repeat: repeat}
	w.timers[t.id] = t
	w.arm(t)
	tracer().Debugf("%s: timer #%d scheduled, delay=%v, repeat=%v", w.name, t.id, delay, repeat)
	return t.id
}

// arm starts the Go timer for t. Expiry posts a task to the event loop, so
// timer callbacks are serialized with all other work. Must hold w.mu.
func (w *Window) arm(t *timer) {
	id := t.id
	t.deadline = time.AfterFunc(t.delay, func() {
		_ = w.Submit(func() { w.fire(id) })
	})
}

func (w *Window) fire(id TimerID) {
	w.mu.Lock()
	t, ok := w.timers[id]
	if ok && !t.repeat {
		delete(w.timers, id)
	}
	w.mu.Unlock()
	if !ok {
		return // cleared after expiry, but before its turn
	}
	w.execute(t.task)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, live := w.timers[id]; live && t.repeat {
		w.arm(t)
	}
}

func (w *Window) clear(id TimerID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.timers[id]
	if !ok {
		return
	}
	if t.deadline != nil {
		t.deadline.Stop()
	}
	delete(w.timers, id)
	tracer().Debugf("%s: timer #%d cleared", w.name, id)
}
