package sim

// Tick is a point in the engine's discrete time. Ticks are 1-indexed from
// the caller's perspective: the first Step call executes tick 1. Delays
// passed before the first Step are relative to tick 0.
type Tick uint64

// An Event is something going to happen at a specific tick.
//
// The engine owns every event in its queue. Ownership passes to the call
// stack for the duration of one Execute call, after which the event is
// dropped; events do not persist once executed. An event that should recur
// schedules a successor through the scheduler handle.
//
// The world is caller-owned state. The engine never reads or writes it; it
// only passes the pointer through to Execute.
type Event[W any] interface {
	// Execute runs the event's behavior against the world. The scheduler
	// handle is valid only for the duration of the call and must not be
	// retained.
	Execute(world *W, now Tick, scheduler *Scheduler[W])
}

// PendingEvent pairs an event with the delay it should be scheduled at.
type PendingEvent[W any] struct {
	Event Event[W]
	Delay Tick
}
