package coroloop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestLoop creates an initialized loop and installs it as the
// process-wide loop for the duration of the test, so combinators that
// schedule via CreateTask land on it.
func newTestLoop(t *testing.T, opts ...LoopOption) *Loop {
	t.Helper()
	l, err := NewLoop(opts...)
	require.NoError(t, err)
	l.Init()
	prev := SetEventLoop(l)
	t.Cleanup(func() { SetEventLoop(prev) })
	return l
}
