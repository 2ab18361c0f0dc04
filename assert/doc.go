/*
Package assert provides assertion helpers which produce user errors.

Deprecated: these helpers are kept for existing callers only. New code
should return errors explicitly.

User errors are errors caused by a document, as opposed to internal errors.
Their messages carry a sentinel suffix, so they can be identified even when
nothing but the message is left.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package assert

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webdom.assert'.
func tracer() tracing.Trace {
	return tracing.Select("webdom.assert")
}
