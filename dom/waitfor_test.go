package dom

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/webdom/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes -----------------------------------------------------------------

type observeCall struct {
	target  Container
	options ObserveOptions
}

type fakeObserver struct {
	observed    []observeCall
	disconnects int
}

func (o *fakeObserver) Observe(target Container, options ObserveOptions) {
	o.observed = append(o.observed, observeCall{target, options})
}

func (o *fakeObserver) Disconnect() {
	o.disconnects++
}

// fakeTimers is a view without mutation observers. Ticks are triggered
// by the test.
type fakeTimers struct {
	intervals []window.Task
	cleared   []window.TimerID
}

func (v *fakeTimers) SetInterval(task window.Task, interval time.Duration) window.TimerID {
	v.intervals = append(v.intervals, task)
	return 123
}

func (v *fakeTimers) ClearInterval(id window.TimerID) {
	v.cleared = append(v.cleared, id)
}

// fakeObservingView additionally creates fake mutation observers.
type fakeObservingView struct {
	fakeTimers
	observer *fakeObserver
	callback MutationCallback
}

func (v *fakeObservingView) NewMutationObserver(callback MutationCallback) MutationObserver {
	v.callback = callback
	v.observer = &fakeObserver{}
	return v.observer
}

type fakeContainer struct {
	view View
}

func (c *fakeContainer) DefaultView() View {
	return c.view
}

type counter struct {
	n int32
}

func (c *counter) inc()       { atomic.AddInt32(&c.n, 1) }
func (c *counter) count() int { return int(atomic.LoadInt32(&c.n)) }

// runWindow drives the window of doc on its own goroutine. The returned func
// stops the loop and waits for it to finish.
func runWindow(doc *Document) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = doc.Window().Run(ctx)
	}()
	return func() {
		cancel()
		<-stopped
	}
}

// --- Tests with fakes ------------------------------------------------------

func TestWaitForChildImmediately(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	view := &fakeObservingView{}
	parent := &fakeContainer{view: view}
	spy := &counter{}
	WaitForChild(parent, func() bool { return true }, spy.inc)
	assert.Equal(t, 1, spy.count())
	assert.Nil(t, view.observer, "no observer created")
	assert.Empty(t, view.intervals, "no timer created")
}

func TestWaitForChildPrefersMutationObserver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	view := &fakeObservingView{}
	parent := &fakeContainer{view: view}
	checkValue := false
	evaluations := 0
	check := func() bool {
		evaluations++
		return checkValue
	}
	spy := &counter{}

	WaitForChild(parent, check, spy.inc)
	assert.Equal(t, 0, spy.count())
	require.NotNil(t, view.observer)
	require.Len(t, view.observer.observed, 1)
	assert.Same(t, parent, view.observer.observed[0].target)
	assert.Equal(t, ObserveOptions{ChildList: true}, view.observer.observed[0].options)
	require.NotNil(t, view.callback)
	assert.Empty(t, view.intervals, "observer and timer are never both active")

	// False callback.
	view.callback(nil, view.observer)
	assert.Equal(t, 0, spy.count())
	assert.Equal(t, 0, view.observer.disconnects)

	// True callback.
	checkValue = true
	view.callback(nil, view.observer)
	assert.Equal(t, 1, spy.count())
	assert.Equal(t, 1, view.observer.disconnects)

	// Late notifications have no effect.
	n := evaluations
	view.callback(nil, view.observer)
	assert.Equal(t, 1, spy.count())
	assert.Equal(t, 1, view.observer.disconnects)
	assert.Equal(t, n, evaluations, "predicate not evaluated after firing")
}

func TestWaitForChildFallsBackToPolling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	view := &fakeTimers{}
	parent := &fakeContainer{view: view}
	checkValue := false
	evaluations := 0
	check := func() bool {
		evaluations++
		return checkValue
	}
	spy := &counter{}

	WaitForChild(parent, check, spy.inc)
	assert.Equal(t, 0, spy.count())
	require.Len(t, view.intervals, 1)
	tick := view.intervals[0]

	// False callback.
	tick()
	tick()
	assert.Equal(t, 0, spy.count())
	assert.Empty(t, view.cleared)

	// True callback.
	checkValue = true
	tick()
	assert.Equal(t, 1, spy.count())
	assert.Equal(t, []window.TimerID{123}, view.cleared)

	// Ticks after firing have no effect.
	n := evaluations
	tick()
	assert.Equal(t, 1, spy.count())
	assert.Len(t, view.cleared, 1)
	assert.Equal(t, n, evaluations, "predicate not evaluated after firing")
}

func TestWaitStrategyCanBeForced(t *testing.T) {
	SetWaitStrategyForTesting(PollingStrategy{})
	defer SetWaitStrategyForTesting(nil)
	//
	view := &fakeObservingView{}
	parent := &fakeContainer{view: view}
	ready := false
	spy := &counter{}
	WaitForChild(parent, func() bool { return ready }, spy.inc)
	assert.Nil(t, view.observer, "observer capability is ignored")
	require.Len(t, view.intervals, 1)
	ready = true
	view.intervals[0]()
	assert.Equal(t, 1, spy.count())
	assert.Len(t, view.cleared, 1)
}

func TestWaitForObserverCanBeForced(t *testing.T) {
	factory := &fakeObservingView{}
	SetWaitStrategyForTesting(ObserverStrategy{Factory: factory})
	defer SetWaitStrategyForTesting(nil)
	//
	view := &fakeTimers{}
	parent := &fakeContainer{view: view}
	spy := &counter{}
	WaitForChild(parent, func() bool { return false }, spy.inc)
	assert.Empty(t, view.intervals)
	require.NotNil(t, factory.observer)
	assert.Len(t, factory.observer.observed, 1)
}

func TestForcedStrategyWithoutContainer(t *testing.T) {
	for name, strategy := range map[string]WaitStrategy{
		"polling":  PollingStrategy{},
		"observer": ObserverStrategy{},
	} {
		SetWaitStrategyForTesting(strategy)
		spy := &counter{}
		assert.NotPanics(t, func() {
			WaitForChild(nil, func() bool { return false }, spy.inc)
			WaitForChild(&fakeContainer{}, func() bool { return false }, spy.inc)
		}, name)
		assert.Equal(t, 0, spy.count(), name)
	}
	SetWaitStrategyForTesting(nil)
}

func TestWaitForChildWithoutView(t *testing.T) {
	spy := &counter{}
	WaitForChild(&fakeContainer{}, func() bool { return false }, spy.inc)
	WaitForChild(nil, func() bool { return false }, spy.inc)
	assert.Equal(t, 0, spy.count(), "remains pending")
	WaitForChild(nil, func() bool { return true }, spy.inc)
	assert.Equal(t, 1, spy.count())
}

// --- Tests with real documents ---------------------------------------------

func TestWaitForChildObservingDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("div")
	spy := &counter{}
	WaitForChild(parent, ContainsNode(parent, child), spy.inc)
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 0, spy.count())
	assert.Len(t, parent.regs, 1, "observer registered")

	mustAppend(t, parent, child)
	assert.Equal(t, 0, spy.count(), "records are delivered asynchronously")
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 1, spy.count())
	assert.Len(t, parent.regs, 0, "observer disconnected")
	assert.Equal(t, 0, doc.Window().ActiveTimers())
}

func TestWaitForChildIgnoresAttributesAndSubtree(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	inner := mustAppend(t, parent, doc.CreateElement("div"))
	evaluations := 0
	WaitForChild(parent, func() bool {
		evaluations++
		return false
	}, func() {})
	require.Equal(t, 1, evaluations)
	parent.SetAttribute("class", "x")
	mustAppend(t, inner, doc.CreateElement("span"))
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 1, evaluations, "no notification for attributes or grandchildren")
	mustAppend(t, parent, doc.CreateElement("span"))
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 2, evaluations)
}

func TestWaitForChildScenarioObserver(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	spy := &counter{}
	WaitForChild(parent, HasChildren(parent, 1), spy.inc)
	assert.Equal(t, 0, spy.count())
	mustAppend(t, parent, doc.CreateElement("div"))
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 1, spy.count())
	mustAppend(t, parent, doc.CreateElement("div"))
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 1, spy.count())
}

func TestWaitForChildScenarioPolling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewDocument(WithoutMutationObserver())
	_, ok := HasMutationObserver(doc.DefaultView())
	require.False(t, ok)
	stop := runWindow(doc)
	defer stop()
	//
	parent := doc.CreateElement("div")
	spy := &counter{}
	WaitForChild(parent, HasChildren(parent, 1), spy.inc)
	assert.Equal(t, 0, spy.count())
	assert.Equal(t, 1, doc.Window().ActiveTimers())
	time.Sleep(3 * PollInterval)
	assert.Equal(t, 0, spy.count(), "keeps polling while the predicate is false")

	mustAppend(t, parent, doc.CreateElement("div"))
	require.Eventually(t, func() bool { return spy.count() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return doc.Window().ActiveTimers() == 0 }, time.Second, time.Millisecond)
	mustAppend(t, parent, doc.CreateElement("div"))
	time.Sleep(3 * PollInterval)
	assert.Equal(t, 1, spy.count())
}

func TestWaitForChildOfDocumentObserver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewDocument()
	spy := &counter{}
	WaitForChild(doc, func() bool { return len(doc.Node().ChildNodes()) >= 2 }, spy.inc)
	assert.Len(t, doc.Node().regs, 1, "document node is observed")
	mustAppend(t, doc.Node(), doc.CreateComment("x"))
	require.NoError(t, doc.Window().RunPending())
	assert.Equal(t, 1, spy.count())
	assert.Empty(t, doc.Node().regs, "observer disconnected")
}

func TestWaitForChildOfDocumentPolling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewDocument(WithoutMutationObserver())
	stop := runWindow(doc)
	defer stop()
	spy := &counter{}
	WaitForChild(doc, func() bool { return len(doc.Node().ChildNodes()) >= 2 }, spy.inc)
	mustAppend(t, doc.Node(), doc.CreateComment("x"))
	require.Eventually(t, func() bool { return spy.count() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return doc.Window().ActiveTimers() == 0 }, time.Second, time.Millisecond)
}

func TestWaitForBody(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webdom.dom")
	defer teardown()
	//
	doc := NewDocument()
	ready := WaitForBodyPromise(doc)
	select {
	case <-ready:
		t.Fatal("document has no body yet")
	default:
	}
	mustAppend(t, doc.DocumentElement(), doc.CreateElement("head"))
	require.NoError(t, doc.Window().RunPending())
	select {
	case <-ready:
		t.Fatal("head is not a body")
	default:
	}
	mustAppend(t, doc.DocumentElement(), doc.CreateElement("body"))
	require.NoError(t, doc.Window().RunPending())
	select {
	case <-ready:
	default:
		t.Fatal("expected body promise to be resolved")
	}
	assert.NotNil(t, doc.Body())
}

func TestWaitForBodyOfHTMLDocument(t *testing.T) {
	doc := NewHTMLDocument()
	called := false
	WaitForBody(doc, func() { called = true })
	assert.True(t, called)
}
