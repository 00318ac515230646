package coroloop

// Metrics tracks runtime counters for the event loop.
//
// Collection is enabled via [WithMetrics]; the counters are plain fields
// owned by the loop goroutine, read via [Loop.Metrics] (which returns a
// copy). There is no synchronization: like the loop itself, metrics are
// single-threaded.
type Metrics struct {
	// Resumes counts body invocations, including direct resumes performed
	// by [Loop.RunUntilComplete].
	Resumes uint64

	// Reaps counts states destroyed when their slot is reaped. An
	// unscheduled main destroyed directly by [Loop.RunUntilComplete] is not
	// counted.
	Reaps uint64

	// Cancellations counts finalized cancellation requests.
	Cancellations uint64

	// Passes counts full normal-mode iterations over the slot table.
	// Teardown iterations in [Loop.Destroy] are not counted.
	Passes uint64

	// PeakOccupancy is the largest number of simultaneously occupied slots
	// observed.
	PeakOccupancy int
}

// noteOccupancy records the current occupancy high-water mark.
func (m *Metrics) noteOccupancy(n int) {
	if n > m.PeakOccupancy {
		m.PeakOccupancy = n
	}
}
