package coroloop

import (
	"time"
)

// Body is a coroutine resume function. One invocation runs the coroutine to
// its next suspension or to completion; the return value becomes the state's
// new cursor. A body that suspends returns [KCont]; a body that completes
// returns [KDone].
//
// Bodies must not block: control returns to the loop at every suspension, and
// the next resume re-enters the body with the state's frame ([Locals]) and
// arena blocks preserved. Ordinary stack variables do not survive a
// suspension unless the body is authored via [NewFunc].
type Body func(*Coro) Cursor

// Coro is a coroutine state: a suspendable computation plus the record of its
// progress.
//
// A state is created with refcount 1, representing the body's ownership of
// itself until it terminates or is canceled. Additional references are taken
// with [Coro.Ref] and released with [Coro.Unref]; a state whose refcount
// reaches zero is reaped at the loop's next visit of its slot, never inline.
//
// Coro is single-threaded: all methods must be called on the goroutine that
// drives the owning loop.
type Coro struct {
	body       Body
	args       any
	locals     any
	next       *Coro
	cancelHook func(*Coro)
	loop       *Loop
	allocs     vec[[]byte]
	refs       int
	k          Cursor
	code       Code
	flags      flagSet
}

// New creates a coroutine state for body with the given opaque arguments.
//
// The state starts at [KInit] with refcount 1, no flags, and [CodeOK].
// Returns nil if body is nil. A state that is never scheduled may simply be
// dropped; once scheduled, the loop owns its reaping.
func New(body Body, args any) *Coro {
	if body == nil {
		return nil
	}
	return &Coro{body: body, args: args, refs: 1}
}

// Locals returns the state's typed frame, allocating it on first use. The
// returned pointer is stable for the lifetime of the state, so frame fields
// survive suspensions.
//
// All calls for a given state must use the same type L.
func Locals[L any](c *Coro) *L {
	if c.locals == nil {
		c.locals = new(L)
	}
	return c.locals.(*L)
}

// Ref increments the reference count and returns the state, for chaining.
func (c *Coro) Ref() *Coro {
	c.refs++
	return c
}

// Unref decrements the reference count with no other side effects. A
// decrement that reaches zero does not free the state; it marks it reapable
// at the loop's next visit.
func (c *Coro) Unref() {
	c.refs--
}

// Refs returns the current reference count.
func (c *Coro) Refs() int {
	return c.refs
}

// Done reports whether the coroutine has completed.
func (c *Coro) Done() bool {
	return c.k == KDone
}

// Cursor returns the state's progress cursor.
func (c *Coro) Cursor() Cursor {
	return c.k
}

// Cancelled reports whether cancellation has been requested, whether or not
// the loop has finalized it yet.
func (c *Coro) Cancelled() bool {
	return c.flags&flagCancel != 0 || c.code == CodeCanceled
}

// Cancel requests cancellation of the coroutine. The request is observed by
// the loop on its next visit of the state's slot; see the package
// documentation for the finalization sequence. Canceling an already-canceled
// state is a no-op.
//
// Cancel returns [ErrInvalidState] when called on a state from inside that
// state's own cancel hook.
//
// Cancel is unsafe if the body owns memory not registered with the state's
// arena: the body never resumes again, so only the cancel hook and the arena
// can release such memory.
func (c *Coro) Cancel() error {
	if c.flags&flagInHook != 0 {
		return ErrInvalidState
	}
	c.flags |= flagCancel
	return nil
}

// requestCancel sets the cancellation bit without the re-entrancy guard.
// Used by the loop for propagation and teardown, where the target is never
// the state whose hook is running.
func (c *Coro) requestCancel() {
	c.flags |= flagCancel
}

// Err returns the state's error code.
func (c *Coro) Err() Code {
	return c.code
}

// SetErr records an error code on the state. Bodies use this to surface
// failures before completing.
func (c *Coro) SetErr(code Code) {
	c.code = code
}

// Args returns the opaque caller-provided arguments.
func (c *Coro) Args() any {
	return c.args
}

// SetCancel installs the cancel hook: a cleanup function the loop invokes
// when it tears down the state while not yet done. Replaces any previously
// installed hook. While a state is done, its hook is never invoked.
func (c *Coro) SetCancel(hook func(*Coro)) {
	c.cancelHook = hook
}

// FAwait links child as the state's await target. The loop will not resume
// this state until the child completes. The link is weak: it is used only for
// the done-gate and for cancellation propagation, and ownership of the child
// remains a refcount concern.
//
// When the state is canceled while the link is set, the loop releases one
// reference on the child and propagates the cancellation to it.
func (c *Coro) FAwait(child *Coro) {
	c.next = child
}

// Awaiting returns the state's current await target, or nil.
func (c *Coro) Awaiting() *Coro {
	return c.next
}

// now returns the monotonic clock reading of the owning loop, falling back to
// [time.Now] for unscheduled states.
func (c *Coro) now() time.Time {
	if c.loop != nil {
		return c.loop.now()
	}
	return time.Now()
}

// runCancelHook invokes the cancel hook at most once, with the re-entrancy
// guard set for the duration of the call.
func (c *Coro) runCancelHook() {
	hook := c.cancelHook
	if hook == nil {
		return
	}
	c.cancelHook = nil
	c.flags |= flagInHook
	hook(c)
	c.flags &^= flagInHook
}

// destroy releases everything the state owns: arena blocks are returned to
// their pools, and remaining links are cleared so the slot's reference is the
// last one standing.
func (c *Coro) destroy() {
	for c.allocs.len() > 0 {
		releaseBlock(c.allocs.pop())
	}
	c.allocs.destroy()
	c.locals = nil
	c.next = nil
	c.body = nil
	c.cancelHook = nil
	c.flags &^= flagScheduled
}
