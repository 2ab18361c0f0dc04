/*
Package window implements a scheduling context for documents: a cooperative
event loop in the manner of a browser window.

Tasks, microtasks and timer callbacks are executed one at a time, on the
goroutine driving the loop. Callbacks therefore never run concurrently with
each other and need no locking among themselves. Microtasks queued by a task
run after that task and before the next one.

Timers follow the familiar setTimeout/setInterval contract: delays are lower
bounds, intervals repeat until cleared, and clearing is idempotent.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package window

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webdom.window'.
func tracer() tracing.Trace {
	return tracing.Select("webdom.window")
}
