package dom

import (
	"sync"

	"github.com/npillmayer/webdom/tree"
	"github.com/npillmayer/webdom/window"
)

// MutationType is the kind of a DOM mutation.
type MutationType string

// Kinds of mutations which are reported to observers.
const (
	ChildList  MutationType = "childList"
	Attributes MutationType = "attributes"
)

// MutationRecord describes a single change of the DOM.
type MutationRecord struct {
	Type          MutationType
	Target        *Node   // node whose children or attributes changed
	AddedNodes    []*Node // for ChildList
	RemovedNodes  []*Node // for ChildList
	AttributeName string  // for Attributes
	OldValue      string  // for Attributes, the value before the change
}

// ObserveOptions selects the mutations an observer is interested in.
type ObserveOptions struct {
	ChildList  bool // changes of the list of children of the target
	Attributes bool // changes of attributes of the target
	Subtree    bool // extend to all descendents of the target
}

// MutationCallback receives batches of mutation records.
type MutationCallback func(records []*MutationRecord, observer MutationObserver)

// MutationObserver watches containers for changes.
type MutationObserver interface {
	Observe(target Container, options ObserveOptions)
	Disconnect()
}

// MutationObserverFactory is the capability of a View to create mutation
// observers. Views which do not implement it offer timers only.
type MutationObserverFactory interface {
	NewMutationObserver(callback MutationCallback) MutationObserver
}

// microtaskQueue is where observers schedule the delivery of records.
type microtaskQueue interface {
	QueueMicrotask(task window.Task)
}

// Observer is the DOM's implementation of MutationObserver.
// Records are collected and delivered in batches, in a microtask of the
// owner document's window.
type Observer struct {
	callback  MutationCallback
	queue     microtaskQueue
	mx        sync.Mutex
	targets   []*Node
	records   []*MutationRecord
	scheduled bool
}

// registration links an observer to an observed node.
type registration struct {
	observer *Observer
	options  ObserveOptions
}

// NewObserver creates a mutation observer delivering records through queue.
func NewObserver(queue microtaskQueue, callback MutationCallback) *Observer {
	return &Observer{callback: callback, queue: queue}
}

// Observe starts observing target. Targets are nodes or documents; observing
// a document observes its document node. Observing the same target again
// replaces the options.
func (o *Observer) Observe(target Container, options ObserveOptions) {
	n := observedNode(target)
	if n == nil {
		tracer().Errorf("mutation observer cannot observe %T", target)
		return
	}
	n.regMx.Lock()
	defer n.regMx.Unlock()
	for i, reg := range n.regs {
		if reg.observer == o {
			n.regs[i] = &registration{observer: o, options: options}
			return
		}
	}
	n.regs = append(n.regs, &registration{observer: o, options: options})
	o.mx.Lock()
	o.targets = append(o.targets, n)
	o.mx.Unlock()
	tracer().Debugf("observing %v, options=%+v", n, options)
}

// Disconnect stops observing all targets. Pending records are dropped.
func (o *Observer) Disconnect() {
	o.mx.Lock()
	targets := o.targets
	o.targets, o.records = nil, nil
	o.mx.Unlock()
	for _, n := range targets {
		n.regMx.Lock()
		for i, reg := range n.regs {
			if reg.observer == o {
				n.regs = append(n.regs[:i], n.regs[i+1:]...)
				break
			}
		}
		n.regMx.Unlock()
	}
	tracer().Debugf("observer disconnected from %d targets", len(targets))
}

// TakeRecords returns and clears the records not yet delivered.
func (o *Observer) TakeRecords() []*MutationRecord {
	o.mx.Lock()
	defer o.mx.Unlock()
	records := o.records
	o.records = nil
	return records
}

func (o *Observer) enqueue(record *MutationRecord) {
	o.mx.Lock()
	defer o.mx.Unlock()
	o.records = append(o.records, record)
	if !o.scheduled {
		o.scheduled = true
		o.queue.QueueMicrotask(o.deliver)
	}
}

func (o *Observer) deliver() {
	o.mx.Lock()
	o.scheduled = false
	records := o.records
	o.records = nil
	o.mx.Unlock()
	if len(records) > 0 && o.callback != nil {
		o.callback(records, o)
	}
}

var _ MutationObserver = (*Observer)(nil)

// observedNode returns the node carrying the child list of a container.
func observedNode(target Container) *Node {
	switch t := target.(type) {
	case *Node:
		return t
	case *Document:
		if t != nil {
			return t.node
		}
	}
	return nil
}

// --- Queueing records ------------------------------------------------------

// childListChanged is the tree hook of every node.
func (n *Node) childListChanged(change tree.ChildListChange[*Node]) {
	record := &MutationRecord{Type: ChildList, Target: n}
	for _, a := range change.Added {
		record.AddedNodes = append(record.AddedNodes, domNode(a))
	}
	for _, r := range change.Removed {
		record.RemovedNodes = append(record.RemovedNodes, domNode(r))
	}
	n.queueRecord(record)
}

// queueRecord hands record to every observer interested in it: observers
// registered on the target itself, and observers registered on an ancestor
// with option Subtree. Each observer receives a record at most once.
func (n *Node) queueRecord(record *MutationRecord) {
	seen := make(map[*Observer]bool)
	for anc := n; anc != nil; anc = anc.ParentNode() {
		anc.regMx.Lock()
		regs := append([]*registration(nil), anc.regs...)
		anc.regMx.Unlock()
		for _, reg := range regs {
			if seen[reg.observer] || (anc != n && !reg.options.Subtree) {
				continue
			}
			if !reg.options.wants(record.Type) {
				continue
			}
			seen[reg.observer] = true
			reg.observer.enqueue(record)
		}
	}
}

func (opts ObserveOptions) wants(typ MutationType) bool {
	switch typ {
	case ChildList:
		return opts.ChildList
	case Attributes:
		return opts.Attributes
	}
	return false
}
