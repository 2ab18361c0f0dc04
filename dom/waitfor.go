package dom

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/npillmayer/webdom/window"
)

// PollInterval is the interval at which children are re-checked when the
// view cannot observe mutations.
const PollInterval = 5 * time.Millisecond

// WaitStrategy arranges for a waiter to re-check its predicate whenever the
// children of a container may have changed.
type WaitStrategy interface {
	Await(container Container, w *Waiter)
}

// ObserverStrategy waits by observing child-list mutations of the container.
// If Factory is nil, the container's view is used, which then must
// implement MutationObserverFactory.
type ObserverStrategy struct {
	Factory MutationObserverFactory
}

// PollingStrategy waits by re-checking at a fixed interval, using the timers
// of the container's view. An Interval of 0 means PollInterval.
type PollingStrategy struct {
	Interval time.Duration
}

// waiter states
const (
	pending int32 = iota
	fired
)

// Waiter holds the state of a single wait for a container's children.
// It goes from pending to fired exactly once.
type Waiter struct {
	state     int32
	predicate func() bool
	callback  func()
}

// Fired returns true once the callback has been invoked.
func (w *Waiter) Fired() bool {
	return atomic.LoadInt32(&w.state) == fired
}

// Check evaluates the predicate and fires if it holds. release is called
// exactly once, immediately before the callback, to free the resources the
// strategy holds. After firing, Check does nothing and returns true.
func (w *Waiter) Check(release func()) bool {
	if w.Fired() {
		return true
	}
	if !w.predicate() {
		return false
	}
	if !atomic.CompareAndSwapInt32(&w.state, pending, fired) {
		return true
	}
	if release != nil {
		release()
	}
	w.callback()
	return true
}

// WaitForChild calls callback as soon as predicate holds, which is
// expected to become true when the children of container change.
// If predicate already holds, callback is called synchronously and
// nothing else happens. Otherwise the container is observed for child-list
// changes, or polled if its view cannot observe mutations, until predicate
// holds. callback is called at most once. There is no timeout.
func WaitForChild(container Container, predicate func() bool, callback func()) {
	w := &Waiter{predicate: predicate, callback: callback}
	if w.Check(nil) {
		return
	}
	strategy := strategyFor(container)
	if strategy == nil {
		tracer().Errorf("wait for child: %v has no view, cannot wait", container)
		return
	}
	strategy.Await(container, w)
}

var strategyOverride struct {
	sync.RWMutex
	strategy WaitStrategy
}

// SetWaitStrategyForTesting forces WaitForChild to use s. nil restores the
// selection by capability of the container's view.
func SetWaitStrategyForTesting(s WaitStrategy) {
	strategyOverride.Lock()
	defer strategyOverride.Unlock()
	strategyOverride.strategy = s
}

func strategyFor(container Container) WaitStrategy {
	if container == nil {
		return nil
	}
	view := container.DefaultView()
	if view == nil {
		return nil
	}
	strategyOverride.RLock()
	s := strategyOverride.strategy
	strategyOverride.RUnlock()
	if s != nil {
		return s
	}
	if f, ok := HasMutationObserver(view); ok {
		tracer().Debugf("wait for child: observing mutations")
		return ObserverStrategy{Factory: f}
	}
	tracer().Debugf("wait for child: polling every %v", PollInterval)
	return PollingStrategy{Interval: PollInterval}
}

// Await observes the children of container and lets w check on each
// notification. The observer is disconnected when w fires.
func (s ObserverStrategy) Await(container Container, w *Waiter) {
	factory := s.Factory
	if factory == nil {
		var ok bool
		if factory, ok = HasMutationObserver(container.DefaultView()); !ok {
			tracer().Errorf("wait for child: view of %v cannot observe mutations", container)
			return
		}
	}
	var observer MutationObserver
	observer = factory.NewMutationObserver(func([]*MutationRecord, MutationObserver) {
		w.Check(observer.Disconnect)
	})
	observer.Observe(container, ObserveOptions{ChildList: true})
}

// Await starts an interval timer on the view of container and lets w check
// on each tick. The timer is cleared when w fires.
func (s PollingStrategy) Await(container Container, w *Waiter) {
	view := container.DefaultView()
	if view == nil {
		tracer().Errorf("wait for child: %v has no view, cannot poll", container)
		return
	}
	interval := s.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	// The first tick may run before SetInterval has returned its ID.
	var id uint64
	var released, cleared int32
	clearTimer := func() {
		if tid := atomic.LoadUint64(&id); tid != 0 && atomic.CompareAndSwapInt32(&cleared, 0, 1) {
			view.ClearInterval(window.TimerID(tid))
		}
	}
	release := func() {
		atomic.StoreInt32(&released, 1)
		clearTimer()
	}
	tid := view.SetInterval(func() { w.Check(release) }, interval)
	atomic.StoreUint64(&id, uint64(tid))
	if atomic.LoadInt32(&released) == 1 {
		clearTimer()
	}
}

var _ WaitStrategy = ObserverStrategy{}
var _ WaitStrategy = PollingStrategy{}

// --- Waiting for the body --------------------------------------------------

// WaitForBody calls callback as soon as doc has a <body> element.
func WaitForBody(doc *Document, callback func()) {
	var container Container = doc.Node()
	if root := doc.DocumentElement(); root != nil {
		container = root
	}
	WaitForChild(container, func() bool { return doc.Body() != nil }, callback)
}

// WaitForBodyPromise returns a channel which is closed as soon as doc has
// a <body> element.
func WaitForBodyPromise(doc *Document) <-chan struct{} {
	ready := make(chan struct{})
	WaitForBody(doc, func() { close(ready) })
	return ready
}
