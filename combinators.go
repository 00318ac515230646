package coroloop

import (
	"time"
)

// The combinators are ordinary coroutines: they compose purely by holding
// references to child states and observing their cursors, so anything they
// do can equally be done by user code.

// YieldOnce returns a coroutine that suspends exactly once and then
// completes. [Sleep] with a non-positive delay is equivalent.
func YieldOnce() *Coro {
	return New(func(c *Coro) Cursor {
		if c.k == KInit {
			return KCont
		}
		return KDone
	}, nil)
}

type sleepLocals struct {
	start   time.Time
	started bool
}

// Sleep returns a coroutine that completes once d has elapsed.
//
// The clock is sampled on the coroutine's first resume, which also suspends;
// each subsequent resume completes when now-start >= d. Resolution is
// therefore the resume cadence of the loop, not a timer. A non-positive d
// degenerates to [YieldOnce].
func Sleep(d time.Duration) *Coro {
	if d <= 0 {
		return YieldOnce()
	}
	return New(func(c *Coro) Cursor {
		f := Locals[sleepLocals](c)
		now := c.now()
		if !f.started {
			f.started, f.start = true, now
			return KCont
		}
		if now.Sub(f.start) >= d {
			return KDone
		}
		return KCont
	}, nil)
}

type gatherLocals struct {
	pending vec[*Coro]
}

// Gather returns a coroutine that completes once every child has completed.
//
// Every non-nil child is scheduled on the process-wide loop and has a
// reference taken; each resume of the gatherer scans for completed children
// and releases them. Canceling the gatherer releases and cancels every child
// not yet done, so each reference is released exactly once on all paths.
// Gathering zero children completes on the first resume.
//
// The children slice is used as the gatherer's backing storage and is
// mutated as children complete; callers must not reuse it. [GatherOf] owns
// its storage outright.
func Gather(children []*Coro) *Coro {
	c := New(gatherBody, nil)
	f := Locals[gatherLocals](c)
	j := 0
	for _, child := range children {
		if child == nil {
			continue
		}
		CreateTask(child)
		child.Ref()
		children[j] = child
		j++
	}
	f.pending = vecOf(children[:j])
	c.SetCancel(gatherCancel)
	return c
}

// GatherOf is the variadic form of [Gather]. The backing array belongs to
// the returned coroutine.
func GatherOf(children ...*Coro) *Coro {
	return Gather(children)
}

func gatherBody(c *Coro) Cursor {
	f := Locals[gatherLocals](c)
	for i := 0; i < f.pending.len(); {
		if child := f.pending.at(i); child.Done() {
			child.Unref()
			f.pending.swapRemove(i)
			continue
		}
		i++
	}
	if f.pending.len() == 0 {
		return KDone
	}
	return KCont
}

func gatherCancel(c *Coro) {
	f := Locals[gatherLocals](c)
	for f.pending.len() > 0 {
		child := f.pending.pop()
		child.Unref()
		child.requestCancel()
	}
}

type waitForLocals struct {
	child   *Coro
	start   time.Time
	timeout time.Duration
	started bool
}

// WaitFor returns a coroutine that completes when child completes, bounded
// by timeout.
//
// WaitFor takes ownership of the child: it is scheduled on the process-wide
// loop with a reference taken, and callers must not use it afterwards. On
// timeout the waiter records [CodeCanceled] on itself, cancels the child,
// and releases it. Canceling the waiter likewise cancels a not-yet-done
// child and releases it.
//
// A nil child returns nil.
func WaitFor(child *Coro, timeout time.Duration) *Coro {
	if child == nil {
		return nil
	}
	c := New(waitForBody, nil)
	f := Locals[waitForLocals](c)
	f.child = child
	f.timeout = timeout
	CreateTask(child)
	child.Ref()
	c.SetCancel(waitForCancel)
	return c
}

func waitForBody(c *Coro) Cursor {
	f := Locals[waitForLocals](c)
	if f.child.Done() {
		f.child.Unref()
		f.child = nil
		return KDone
	}
	now := c.now()
	if !f.started {
		f.started, f.start = true, now
		return KCont
	}
	if now.Sub(f.start) >= f.timeout {
		c.code = CodeCanceled
		f.child.requestCancel()
		f.child.Unref()
		f.child = nil
		return KDone
	}
	return KCont
}

func waitForCancel(c *Coro) {
	f := Locals[waitForLocals](c)
	if f.child == nil {
		return
	}
	if !f.child.Done() {
		f.child.requestCancel()
	}
	f.child.Unref()
	f.child = nil
}
