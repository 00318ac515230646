// Package coroloop provides a cooperative, single-threaded coroutine runtime
// for Go: a minimal async/await scheduler built around reference-counted
// coroutine states, an event loop with a slotted task table, and a small set
// of combinators ([Sleep], [Gather], [WaitFor], [YieldOnce]).
//
// # Architecture
//
// The runtime is built around a [Loop] that owns a slot table of scheduled
// [Coro] states. A coroutine is a resume function ([Body]) plus the record of
// its progress: a cursor ([Cursor]), a reference count, an error code
// ([Code]), an optional cancel hook, and a scratch arena of blocks released
// when the state is destroyed.
//
// The loop repeatedly visits every occupied slot. On each visit it either
// reaps a state whose reference count reached zero, finalizes a pending
// cancellation request, or resumes the body once. Reaping and cancellation
// finalization are always deferred to the next visit of the slot, so a state
// is never destroyed from within its own resume.
//
// # Execution Model
//
// Scheduling is single-threaded and cooperative. Exactly one resume runs at a
// time, all state transitions occur on the goroutine that drives the loop,
// and there are no locks or atomics on the hot path. A [Loop] must not be
// shared between goroutines.
//
// Slot visit order within a pass is ascending slot index; vacated slots are
// refilled LIFO. No fairness is guaranteed beyond round-robin by insertion.
//
// # Authoring Coroutines
//
// The base contract is a resume function: one invocation runs to the next
// suspension or to completion, and its return value becomes the new cursor.
// Data that must survive a suspension lives in the state's typed frame,
// obtained via [Locals], or in arena blocks obtained via [Coro.Alloc].
//
// For straight-line authoring, [NewFunc] adapts an ordinary function into a
// coroutine using a lazily started goroutine whose execution never overlaps
// with the loop; the function suspends via [Yield.Yield], [Yield.Await],
// [Yield.AwaitWhile], [Yield.FAwait], and [Yield.Exit].
//
// # Usage
//
//	var loop coroloop.Loop
//	loop.Init()
//	defer loop.Destroy()
//
//	done := false
//	task := coroloop.NewFunc(func(y *coroloop.Yield) {
//		child := loop.AddTask(coroloop.Sleep(50 * time.Millisecond))
//		y.FAwait(child)
//		done = true
//	}, nil)
//
//	loop.RunUntilComplete(task)
//
// # Cancellation
//
// [Coro.Cancel] is a request, not an action: the loop observes the request on
// its next visit, runs the cancel hook if the state has not completed,
// propagates the cancellation one level to a linked child, and marks the
// state done with [CodeCanceled]. Cancellation of an already-canceled state
// is a no-op.
//
// # Error Handling
//
// Coroutine-level failures are reported through the closed [Code] taxonomy
// stored on each state; the loop itself never aborts. Operations on the loop
// surface report failures with sentinel errors ([ErrNilTask],
// [ErrInvalidState]) in the usual errors.Is style.
//
// # Logging
//
// The loop logs through a [logiface] logger configured via [WithLogger];
// logging is disabled by default. [DebugLogger] wires the stumpy backend for
// quick diagnostics.
//
// [logiface]: https://github.com/joeycumines/logiface
package coroloop
