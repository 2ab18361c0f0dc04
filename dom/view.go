package dom

import (
	"time"

	"github.com/npillmayer/webdom/window"
)

// Container is a node whose list of children may be waited on.
// It exposes the scheduling context it lives in.
type Container interface {
	DefaultView() View
}

// View is the scheduling context of a document, offering interval timers.
// Views which are able to observe DOM mutations additionally implement
// MutationObserverFactory.
type View interface {
	SetInterval(task window.Task, interval time.Duration) window.TimerID
	ClearInterval(id window.TimerID)
}

// TimerView is a view offering timers only, backed by a window's event loop.
type TimerView struct {
	*window.Window
}

// ObservingView is a view offering timers and mutation observers, backed by
// a window's event loop. Mutation records are delivered as microtasks of
// the window.
type ObservingView struct {
	TimerView
}

// NewMutationObserver creates an observer delivering on the view's window.
// It is part of interface MutationObserverFactory.
func (v ObservingView) NewMutationObserver(callback MutationCallback) MutationObserver {
	return NewObserver(v.Window, callback)
}

var _ View = TimerView{}
var _ MutationObserverFactory = ObservingView{}

// HasMutationObserver is the capability query for a view.
func HasMutationObserver(v View) (MutationObserverFactory, bool) {
	if v == nil {
		return nil, false
	}
	f, ok := v.(MutationObserverFactory)
	return f, ok
}
