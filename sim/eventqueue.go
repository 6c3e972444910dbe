package sim

import (
	"container/heap"
	"sync"
)

// A scheduledEvent pairs an engine-assigned id with an owned event. The id
// alone defines identity: two entries with the same id are the same entry
// regardless of their payload. Ids are monotonic and never reused.
type scheduledEvent[W any] struct {
	id    uint64
	time  Tick
	event Event[W]
}

func (s *scheduledEvent[W]) equal(other *scheduledEvent[W]) bool {
	return s.id == other.id
}

// An eventQueue is a queue of scheduled events ordered by (time, id).
type eventQueue[W any] interface {
	Push(entry *scheduledEvent[W])
	Pop() *scheduledEvent[W]
	Len() int
	Peek() *scheduledEvent[W]
}

// eventQueueImpl provides a thread-safe event queue.
type eventQueueImpl[W any] struct {
	sync.Mutex
	events eventHeap[W]
}

func newEventQueue[W any]() *eventQueueImpl[W] {
	q := new(eventQueueImpl[W])
	q.events = make(eventHeap[W], 0)
	heap.Init(&q.events)
	return q
}

// Push adds an entry to the event queue.
func (q *eventQueueImpl[W]) Push(entry *scheduledEvent[W]) {
	q.Lock()
	heap.Push(&q.events, entry)
	q.Unlock()
}

// Pop returns the entry with the smallest (time, id) key.
func (q *eventQueueImpl[W]) Pop() *scheduledEvent[W] {
	q.Lock()
	entry := heap.Pop(&q.events).(*scheduledEvent[W])
	q.Unlock()
	return entry
}

// Len returns the number of entries in the queue.
func (q *eventQueueImpl[W]) Len() int {
	q.Lock()
	l := q.events.Len()
	q.Unlock()
	return l
}

// Peek returns the entry at the front of the queue without removing it.
func (q *eventQueueImpl[W]) Peek() *scheduledEvent[W] {
	q.Lock()
	entry := q.events[0]
	q.Unlock()
	return entry
}

type eventHeap[W any] []*scheduledEvent[W]

func (h eventHeap[W]) Len() int {
	return len(h)
}

// Less orders entries ascending by execution tick, then ascending by id, so
// that entries scheduled first pop first among same-tick entries.
func (h eventHeap[W]) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].id < h[j].id
}

func (h eventHeap[W]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap[W]) Push(x interface{}) {
	entry := x.(*scheduledEvent[W])
	*h = append(*h, entry)
}

func (h *eventHeap[W]) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[0 : n-1]
	return entry
}
