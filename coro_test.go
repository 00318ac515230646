package coroloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// never is a body that suspends forever.
func never(*Coro) Cursor {
	return KCont
}

func TestNewInitialState(t *testing.T) {
	args := new(int)
	c := New(never, args)
	require.NotNil(t, c)
	assert.Equal(t, 1, c.Refs())
	assert.Equal(t, KInit, c.Cursor())
	assert.Equal(t, CodeOK, c.Err())
	assert.False(t, c.Done())
	assert.False(t, c.Cancelled())
	assert.Same(t, args, c.Args())
	assert.Nil(t, c.Awaiting())
}

func TestNewNilBody(t *testing.T) {
	assert.Nil(t, New(nil, nil))
}

func TestRefUnrefRoundTrip(t *testing.T) {
	c := New(never, nil)
	assert.Same(t, c, c.Ref())
	assert.Equal(t, 2, c.Refs())
	c.Unref()
	assert.Equal(t, 1, c.Refs())
}

func TestCancelIdempotent(t *testing.T) {
	c := New(never, nil)
	require.NoError(t, c.Cancel())
	require.NoError(t, c.Cancel())
	assert.True(t, c.Cancelled())
	// the request is finalized by the loop, not by Cancel itself
	assert.Equal(t, CodeOK, c.Err())
	assert.False(t, c.Done())
}

func TestLocalsStableAddress(t *testing.T) {
	type frame struct{ n int }
	c := New(never, nil)
	p := Locals[frame](c)
	p.n = 7
	q := Locals[frame](c)
	assert.Same(t, p, q)
	assert.Equal(t, 7, q.n)
}

func TestFAwaitLink(t *testing.T) {
	parent := New(never, nil)
	child := New(never, nil)
	parent.FAwait(child)
	assert.Same(t, child, parent.Awaiting())
	parent.FAwait(nil)
	assert.Nil(t, parent.Awaiting())
}

func TestCancelInsideOwnHookRejected(t *testing.T) {
	l := newTestLoop(t)

	var hookErr error
	c := New(never, nil)
	c.SetCancel(func(c *Coro) {
		hookErr = c.Cancel()
	})
	l.AddTask(c)
	require.NoError(t, c.Cancel())

	l.pass()
	assert.ErrorIs(t, hookErr, ErrInvalidState)
	assert.True(t, c.Done())
	assert.Equal(t, CodeCanceled, c.Err())
}

func TestCancelHookSkippedWhenDone(t *testing.T) {
	l := newTestLoop(t)

	hooked := false
	c := New(func(*Coro) Cursor { return KDone }, nil)
	c.SetCancel(func(*Coro) { hooked = true })
	l.AddTask(c)

	l.pass() // resumes to completion, drops the self reference
	require.True(t, c.Done())
	require.Equal(t, 0, c.Refs())
	l.pass() // reaps
	assert.False(t, hooked)
	assert.Equal(t, 0, l.occupied())
}

func TestCancelHookRunsOnReapBeforeDone(t *testing.T) {
	l := newTestLoop(t)

	hooked := false
	c := New(never, nil)
	c.SetCancel(func(*Coro) { hooked = true })
	l.AddTask(c)

	l.pass()
	c.Unref()
	require.Equal(t, 0, c.Refs())
	l.pass()
	assert.True(t, hooked)
	assert.Equal(t, 0, l.occupied())
}

func TestSetErrSurfacesCode(t *testing.T) {
	l := newTestLoop(t)

	c := New(func(c *Coro) Cursor {
		c.SetErr(CodeNoMem)
		return KDone
	}, nil)
	l.AddTask(c)
	l.pass()
	assert.True(t, c.Done())
	assert.Equal(t, CodeNoMem, c.Err())
	assert.ErrorIs(t, c.Err().Err(), ErrNoMem)
}
