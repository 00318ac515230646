package coroloop

import (
	"errors"
)

// errKilled is the panic value used to unwind a suspended goroutine-backed
// body when its state is torn down before completion.
var errKilled = errors.New("coroloop: coroutine killed")

// exitSignal is the panic value used by [Yield.Exit] for immediate
// completion.
type exitSignal struct{}

// Yield is the suspension handle passed to goroutine-backed coroutine
// bodies; see [NewFunc].
//
// All methods must be called from the body's own goroutine. Each suspension
// hands control back to the loop; the next resume re-enters the body at the
// same point with all local variables intact.
type Yield struct {
	c      *Coro
	resume chan struct{}
	step   chan struct{}
	kill   chan struct{}
	dead   chan struct{}
}

// NewFunc creates a coroutine whose body is an ordinary straight-line
// function, suspended and resumed via the provided [Yield].
//
// The function runs on its own goroutine, but its execution never overlaps
// with the loop: the goroutine only runs between a resume and the next
// suspension, exactly like a resume-function body. The goroutine is started
// lazily on the first resume.
//
// The returned state has a cancel hook pre-installed that unwinds the
// goroutine, so tearing down the state on any path — cancellation, external
// release, or [Loop.Destroy] — does not leak it. Deferred functions inside
// fn run during the unwind. Replacing the hook via [Coro.SetCancel] forfeits
// that cleanup.
func NewFunc(fn func(*Yield), args any) *Coro {
	if fn == nil {
		return nil
	}
	y := &Yield{
		resume: make(chan struct{}),
		step:   make(chan struct{}),
		kill:   make(chan struct{}),
		dead:   make(chan struct{}),
	}
	started := false
	c := New(func(c *Coro) Cursor {
		if !started {
			started = true
			y.c = c
			go y.run(fn)
		}
		y.resume <- struct{}{}
		if _, ok := <-y.step; !ok {
			return KDone
		}
		return KCont
	}, args)
	c.SetCancel(func(*Coro) {
		if !started {
			return
		}
		close(y.kill)
		<-y.dead
	})
	return c
}

// run hosts fn. The deferred closes release, in order, any resume waiting on
// step, then the kill hook waiting on dead.
func (y *Yield) run(fn func(*Yield)) {
	defer close(y.dead)
	defer close(y.step)
	defer func() {
		switch r := recover().(type) {
		case nil:
		case exitSignal:
		case error:
			if !errors.Is(r, errKilled) {
				panic(r)
			}
		default:
			panic(r)
		}
	}()
	y.waitResume()
	fn(y)
}

// waitResume blocks the body until the next resume, or unwinds it when the
// state is being torn down.
func (y *Yield) waitResume() {
	select {
	case <-y.resume:
	case <-y.kill:
		panic(errKilled)
	}
}

// Yield suspends the body until the next resume.
func (y *Yield) Yield() {
	y.step <- struct{}{}
	y.waitResume()
}

// Await suspends the body until cond reports true, rechecking once per
// resume. A cond that is already true does not suspend.
func (y *Yield) Await(cond func() bool) {
	for !cond() {
		y.Yield()
	}
}

// AwaitWhile suspends the body until cond reports false, rechecking once per
// resume.
func (y *Yield) AwaitWhile(cond func() bool) {
	for cond() {
		y.Yield()
	}
}

// FAwait links child as the state's await target and suspends; the loop will
// not resume this coroutine until the child completes. The link is cleared
// on resume.
//
// The link does not take a reference: the child's own lifetime rules apply,
// and if this coroutine is canceled while awaiting, the loop releases one
// child reference and propagates the cancellation.
func (y *Yield) FAwait(child *Coro) {
	if child == nil {
		return
	}
	y.c.next = child
	y.Yield()
	y.c.next = nil
}

// Exit completes the coroutine immediately. Deferred functions inside the
// body run; code after the call does not.
func (y *Yield) Exit() {
	panic(exitSignal{})
}

// State returns the coroutine state the body is running under, for access to
// [Coro.Args], [Coro.SetErr], and the arena. It is nil before the first
// resume.
func (y *Yield) State() *Coro {
	return y.c
}
