package coroloop

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// DebugLogger returns a debug-level structured logger writing JSON lines to
// w, suitable for [WithLogger]. It wires the stumpy backend, which is the
// cheapest of the logiface implementations and needs no configuration.
//
// Production users integrating an existing logging framework should build
// their own logiface logger instead; this constructor exists so loop
// diagnostics are one option away.
func DebugLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
}
