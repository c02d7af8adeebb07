// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: trace_enabled.go — active lifecycle trace hook (s3qtrace build)
//
// Purpose:
//   - The diagnostic half of trace.go: writes "event=<event> k=v ..." lines
//     directly to stderr using string concatenation, an alloc-averse
//     cold-path logging shape.
// ─────────────────────────────────────────────────────────────────────────────

//go:build s3qtrace

package trace

import "os"

// Enabled reports whether trace output is compiled in.
const Enabled = true

func Event(event string, fields ...string) {
	msg := "event=" + event
	for _, f := range fields {
		msg += " " + f
	}
	os.Stderr.WriteString(msg + "\n")
}
