package tree

import "sync"

// ChildListChange describes a single change to the list of children of
// a node. Target is the node whose children changed.
type ChildListChange[T comparable] struct {
	Target  *Node[T]
	Added   []*Node[T]
	Removed []*Node[T]
}

// ChildListHook is called after the children of a watched node changed.
// Hooks are called synchronously on the goroutine performing the change,
// after the children lock has been released.
type ChildListHook[T comparable] func(ChildListChange[T])

// Watch registers a hook for changes of the children of node.
// It returns a function to unregister the hook. Calling it more than
// once is harmless.
func (node *Node[T]) Watch(hook ChildListHook[T]) (unwatch func()) {
	if hook == nil {
		return func() {}
	}
	id := node.hooks.add(hook)
	tracer().Debugf("watching children of %v, hook #%d", node, id)
	return func() {
		node.hooks.remove(id)
	}
}

// Watched returns true if at least one hook is registered for node.
func (node *Node[T]) Watched() bool {
	return node.hooks.count() > 0
}

func (node *Node[T]) notify(change ChildListChange[T]) {
	for _, hook := range node.hooks.snapshot() {
		hook(change)
	}
}

// --- Hook list ---------------------------------------------------------

type hookEntry[T comparable] struct {
	id   uint64
	hook ChildListHook[T]
}

type hookList[T comparable] struct {
	sync.Mutex
	next    uint64
	entries []hookEntry[T]
}

func (hl *hookList[T]) add(hook ChildListHook[T]) uint64 {
	hl.Lock()
	defer hl.Unlock()
	hl.next++
	hl.entries = append(hl.entries, hookEntry[T]{id: hl.next, hook: hook})
	return hl.next
}

func (hl *hookList[T]) remove(id uint64) {
	hl.Lock()
	defer hl.Unlock()
	for i, e := range hl.entries {
		if e.id == id {
			hl.entries = append(hl.entries[:i], hl.entries[i+1:]...)
			return
		}
	}
}

func (hl *hookList[T]) count() int {
	hl.Lock()
	defer hl.Unlock()
	return len(hl.entries)
}

// snapshot copies the hooks, so they may be called without holding the lock.
// Hooks are free to unregister themselves.
func (hl *hookList[T]) snapshot() []ChildListHook[T] {
	hl.Lock()
	defer hl.Unlock()
	if len(hl.entries) == 0 {
		return nil
	}
	hooks := make([]ChildListHook[T], len(hl.entries))
	for i, e := range hl.entries {
		hooks[i] = e.hook
	}
	return hooks
}
