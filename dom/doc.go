/*
Package dom implements a small, observable Document Object Model.

Overview

Documents consist of element, text and comment nodes below a document node.
Every document has a default view, its scheduling context. Views offer
interval timers and, usually, mutation observers, which report changes of
the DOM asynchronously, in batches.

The package offers a set of helpers for everyday DOM work: removing and
copying children, finding the closest ancestor matching a predicate, and
finding child elements by tag name or attribute. Most prominently, clients
may wait for children to appear:

    dom.WaitForChild(parent, func() bool {
        return dom.ChildElementByTag(parent, "amp-img") != nil
    }, func() {
        // called exactly once
    })

WaitForChild prefers observing mutations. If the view of the container
cannot observe mutations, it falls back to polling.

Tree Implementation

We implement the DOM on top of a general purpose tree type (package tree),
which offers concurrency-safe operations to manipulate tree nodes and
reports changes of the list of children of a node.
In Go we resort to composition, thus including a generic tree node in every
DOM node.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webdom.dom'.
func tracer() tracing.Trace {
	return tracing.Select("webdom.dom")
}
