package coroloop

import (
	"time"

	"github.com/joeycumines/logiface"
)

// Loop is the event loop: a slotted task table with a vacancy free-list,
// driven by passes over every occupied slot.
//
// The zero value is ready to use; [Loop.Init] is idempotent on it. Use
// [NewLoop] to configure logging, metrics, or a custom clock.
//
// Loop is strictly single-threaded: every method must be called from one
// goroutine, and no coroutine body may touch the loop from elsewhere.
// Concurrent mutation is undefined behavior, by contract rather than by
// mutex.
type Loop struct {
	// Prevent comparison
	_ [0]func()

	// events is the slot table. A nil entry is a vacant slot; iteration
	// skips nils.
	events vec[*Coro]

	// vacant is the free-list of known-vacant slot indices, reused LIFO
	// before events is extended.
	vacant vec[int]

	log     *logiface.Logger[logiface.Event]
	metrics *Metrics
	clock   func() time.Time
}

// NewLoop creates a loop with the given options applied.
func NewLoop(opts ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}
	l := &Loop{
		log:   cfg.logger,
		clock: cfg.clock,
	}
	if cfg.metricsEnabled {
		l.metrics = &Metrics{}
	}
	return l, nil
}

// Init resets both task tables to empty. It is idempotent on a freshly
// zeroed loop, and may be used to reuse a loop after [Loop.Destroy].
func (l *Loop) Init() {
	l.events = vec[*Coro]{}
	l.vacant = vec[int]{}
}

// now returns the loop's monotonic clock reading.
func (l *Loop) now() time.Time {
	if l.clock != nil {
		return l.clock()
	}
	return time.Now()
}

// occupied returns the number of live slots.
func (l *Loop) occupied() int {
	return l.events.len() - l.vacant.len()
}

// AddTask schedules a coroutine state on the loop.
//
// A nil state returns nil. A state that is already scheduled is returned
// unchanged; a state is in at most one slot. Otherwise the state is
// installed in a vacant slot when one exists, or appended to the table, and
// marked scheduled. Once scheduled, the loop owns the state's reaping.
func (l *Loop) AddTask(c *Coro) *Coro {
	if c == nil {
		return nil
	}
	if c.flags&flagScheduled != 0 {
		return c
	}
	c.loop = l
	if l.vacant.len() > 0 {
		l.events.set(l.vacant.pop(), c)
	} else {
		l.events.push(c)
	}
	c.flags |= flagScheduled
	if l.metrics != nil {
		l.metrics.noteOccupancy(l.occupied())
	}
	return c
}

// AddTasks schedules a batch of coroutine states, all or nothing.
//
// If any entry is nil, AddTasks returns [ErrNilTask] and the table is
// unchanged. Otherwise the table's capacity is reserved up front and every
// not-yet-scheduled entry is appended; installation cannot fail after the
// reserve.
func (l *Loop) AddTasks(cs []*Coro) error {
	for _, c := range cs {
		if c == nil {
			return ErrNilTask
		}
	}
	l.events.reserve(len(cs))
	for _, c := range cs {
		if c.flags&flagScheduled != 0 {
			continue
		}
		c.loop = l
		l.events.push(c)
		c.flags |= flagScheduled
	}
	if l.metrics != nil {
		l.metrics.noteOccupancy(l.occupied())
	}
	return nil
}

// RunForever runs passes until no occupied slot remains.
func (l *Loop) RunForever() {
	for l.occupied() > 0 {
		l.pass()
	}
}

// RunUntilComplete runs passes until main completes, resuming main directly
// once per pass before iterating the slots. main need not be scheduled; a
// scheduled main is additionally resumed by the slot iteration, like any
// other task.
//
// When main terminates with refcount zero it is destroyed: directly when
// unscheduled, via one further reaping pass when it occupies a slot.
//
// RunUntilComplete is re-entrant across calls: unfinished tasks persist in
// the table between invocations.
func (l *Loop) RunUntilComplete(main *Coro) {
	if main == nil {
		return
	}
	main.loop = l
	for !main.Done() {
		if main.next == nil || main.next.Done() {
			l.resume(main)
		}
		l.pass()
	}
	if main.refs > 0 {
		return
	}
	if main.flags&flagScheduled != 0 {
		l.pass()
	} else {
		main.destroy()
	}
}

// pass is one full iteration over every slot, in normal mode.
func (l *Loop) pass() {
	if l.metrics != nil {
		l.metrics.Passes++
	}
	for i := 0; i < l.events.len(); i++ {
		c := l.events.at(i)
		switch {
		case c == nil:
			// vacant
		case c.refs <= 0:
			l.reap(c, i)
		case c.Cancelled() && c.code != CodeCanceled:
			l.finalizeCancel(c)
		case !c.Done() && (c.next == nil || c.next.Done()):
			l.resume(c)
		}
	}
}

// resume invokes the body once and applies the cursor transition. A body
// that completes drops the self-reference the state was created with.
func (l *Loop) resume(c *Coro) {
	c.k = c.body(c)
	if c.k == KDone {
		c.refs--
	}
	if l.metrics != nil {
		l.metrics.Resumes++
	}
}

// reap destroys a state whose refcount reached zero and returns its slot to
// the vacancy free-list. A state torn down before completion has its cancel
// hook invoked first; the arena is drained afterwards either way.
func (l *Loop) reap(c *Coro, i int) {
	if !c.Done() {
		c.runCancelHook()
	}
	l.log.Debug().
		Int("slot", i).
		Stringer("code", c.code).
		Bool("done", c.Done()).
		Log("reaped coroutine")
	c.destroy()
	l.events.set(i, nil)
	l.vacant.push(i)
	if l.metrics != nil {
		l.metrics.Reaps++
	}
}

// finalizeCancel applies a pending cancellation request: exactly once per
// state, deferred to the slot visit so it never runs inside a resume.
//
// A state canceled before completion loses its self-reference and has its
// cancel hook run; a linked await child loses one reference and inherits
// the cancellation. The state ends done with
// [CodeCanceled].
func (l *Loop) finalizeCancel(c *Coro) {
	if !c.Done() {
		c.refs--
		c.runCancelHook()
		if child := c.next; child != nil {
			c.next = nil
			child.refs--
			child.requestCancel()
		}
	}
	c.code = CodeCanceled
	c.k = KDone
	l.log.Debug().
		Int("refs", c.refs).
		Log("canceled coroutine")
	if l.metrics != nil {
		l.metrics.Cancellations++
	}
}

// Destroy cancels everything still scheduled, runs teardown passes to
// fixpoint, and releases both tables. After Destroy returns, no state
// scheduled on the loop remains live and every arena block has been
// released.
//
// Destroy differs from the normal pass in that no state is resumed: any
// state that would have been resumed is canceled and revisited immediately
// so its cancellation finalizes within the same iteration. Reaping nulls
// slots in place exactly as in a normal pass.
func (l *Loop) Destroy() {
	for l.occupied() > 0 {
		progressed := false
		for i := 0; i < l.events.len(); i++ {
			c := l.events.at(i)
			switch {
			case c == nil:
			case c.refs <= 0:
				l.reap(c, i)
				progressed = true
			case c.Cancelled() && c.code != CodeCanceled:
				l.finalizeCancel(c)
				progressed = true
			case !c.Done() && c.code == CodeCanceled:
				// the cancellation rule skips this code, so finalize directly
				l.finalizeCancel(c)
				progressed = true
			case !c.Done():
				c.requestCancel()
				i-- // revisit under the cancellation rule
				progressed = true
			default:
				// Done with references still held; the owner is expected to
				// release them as its own teardown finalizes.
			}
		}
		if !progressed {
			l.reapLeaked()
			break
		}
	}
	l.events.destroy()
	l.vacant.destroy()
}

// reapLeaked force-destroys states whose references were never released.
// Reached only when a teardown pass makes no progress, i.e. a reference is
// held outside the table.
func (l *Loop) reapLeaked() {
	for i := 0; i < l.events.len(); i++ {
		c := l.events.at(i)
		if c == nil {
			continue
		}
		l.log.Warning().
			Int("slot", i).
			Int("refs", c.refs).
			Log("destroying loop with leaked coroutine references")
		l.reap(c, i)
	}
}

// Metrics returns a snapshot of the loop's counters. The second return is
// false when metrics collection is not enabled.
func (l *Loop) Metrics() (Metrics, bool) {
	if l.metrics == nil {
		return Metrics{}, false
	}
	return *l.metrics, true
}
