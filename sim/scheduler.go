package sim

import "log"

// A Scheduler is the narrow handle through which new work enters the queue.
// It is constructed fresh for every dispatch, bound to the tick frozen at
// construction time, and discarded after the call it was created for. It
// holds no state of its own beyond borrowed references to the engine's
// queue, id counter, and cancellation set.
type Scheduler[W any] struct {
	now       Tick
	queue     eventQueue[W]
	idCounter *uint64
	cancelled map[uint64]struct{}
}

// Schedule enqueues an event delay ticks after the handle's tick and returns
// the id assigned to it. Ids start at 1 and are strictly increasing across
// the engine's lifetime. A delay of 0 during event execution means later in
// the same Step call, budget permitting.
func (s *Scheduler[W]) Schedule(event Event[W], delay Tick) uint64 {
	*s.idCounter++
	id := *s.idCounter

	executeAt := s.now + delay
	if executeAt < s.now {
		// Wrapping would corrupt queue ordering.
		log.Panicf("sim: delay %d from tick %d overflows the tick range",
			delay, s.now)
	}

	s.queue.Push(&scheduledEvent[W]{
		id:    id,
		time:  executeAt,
		event: event,
	})

	return id
}

// Cancel marks the id for cancellation. The entry is discarded, without
// executing, when it would otherwise pop. Cancelling an id that is not in
// the queue is a no-op; ids are never reused, so a stale mark is inert.
func (s *Scheduler[W]) Cancel(id uint64) {
	s.cancelled[id] = struct{}{}
}
