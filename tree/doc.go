/*
Package tree implements a general purpose tree of mutable nodes.

Nodes carry a payload of a type parameter and maintain a concurrency-safe
list of children. Clients may watch the list of children of a node;
registered hooks are informed about every insertion and removal.
Higher level trees (the DOM, for example) are built by composition,
including a generic tree node in every node (sub-)type.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webdom.tree'.
func tracer() tracing.Trace {
	return tracing.Select("webdom.tree")
}
