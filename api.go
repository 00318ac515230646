package coroloop

// The process-wide loop mirrors the package-level logger pattern: a single
// mutable pointer, swappable for custom implementations or tests. Replace it
// only between Init/Destroy cycles; swapping mid-run is undefined.

var processLoop = &Loop{}

// GetEventLoop returns the process-wide event loop.
func GetEventLoop() *Loop {
	return processLoop
}

// SetEventLoop installs l as the process-wide event loop and returns the
// previous one. A nil l leaves the current loop in place, so the call
// degenerates to [GetEventLoop].
func SetEventLoop(l *Loop) *Loop {
	prev := processLoop
	if l != nil {
		processLoop = l
	}
	return prev
}

// CreateTask schedules a coroutine state on the process-wide loop. See
// [Loop.AddTask].
func CreateTask(c *Coro) *Coro {
	return processLoop.AddTask(c)
}

// CreateTasks schedules a batch on the process-wide loop, all or nothing.
// See [Loop.AddTasks].
func CreateTasks(cs []*Coro) error {
	return processLoop.AddTasks(cs)
}
