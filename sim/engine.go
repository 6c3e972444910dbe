package sim

// An Engine drives a tick-based discrete-event simulation. It owns the
// event queue, the tick counter, the id counter, the cancellation set, and
// the per-tick execution budget.
//
// An Engine is not safe for concurrent use. One engine serves one
// execution context; callers that need more synchronize externally.
type Engine[W any] struct {
	HookableBase

	currentTick   Tick
	idCounter     uint64
	totalExecuted uint64

	queue     eventQueue[W]
	cancelled map[uint64]struct{}

	maxExecutionsPerTick uint64
}

// NewEngine creates an Engine with an empty queue and the default per-tick
// execution budget.
func NewEngine[W any]() *Engine[W] {
	return &Engine[W]{
		queue:                newEventQueue[W](),
		cancelled:            make(map[uint64]struct{}),
		maxExecutionsPerTick: 5,
	}
}

// WithMaxExecutionsPerTick sets the per-tick execution budget. The budget
// bounds worst-case Step latency under event storms: due events beyond the
// budget stay queued and are considered on the next Step.
func (e *Engine[W]) WithMaxExecutionsPerTick(n uint64) *Engine[W] {
	e.maxExecutionsPerTick = n
	return e
}

// WithInitialEventPool schedules each pair in the pool. Delays are relative
// to tick 0, so a 0-delay entry is due on the first Step.
func (e *Engine[W]) WithInitialEventPool(pool []PendingEvent[W]) *Engine[W] {
	for _, p := range pool {
		e.Schedule(p.Event, p.Delay)
	}

	return e
}

// Schedule enqueues an event delay ticks from the current tick and returns
// its id. It is the engine-level equivalent of calling Schedule on a
// scheduler handle bound to the current tick.
func (e *Engine[W]) Schedule(event Event[W], delay Tick) uint64 {
	return e.scheduler().Schedule(event, delay)
}

// Cancel marks the id for cancellation. Idempotent. Removal is lazy: the
// entry is discarded when it would otherwise pop, without executing and
// without counting against any execution budget. Priority heaps do not
// support cheap arbitrary removal, so the engine trades a little queue
// space for O(1) cancellation.
func (e *Engine[W]) Cancel(id uint64) {
	e.cancelled[id] = struct{}{}
}

func (e *Engine[W]) scheduler() *Scheduler[W] {
	return &Scheduler[W]{
		now:       e.currentTick,
		queue:     e.queue,
		idCounter: &e.idCounter,
		cancelled: e.cancelled,
	}
}

// An Execution describes one dispatched event. It is the Item carried by
// HookCtx at HookPosBeforeEvent and HookPosAfterEvent.
type Execution struct {
	ID    uint64
	Tick  Tick
	Event any
}

// Step advances the simulation by exactly one tick and executes every due
// entry in ascending (tick, id) order, up to the execution budget. Events
// scheduled with delay 0 during the tick execute later in the same Step
// call because the loop re-reads the queue head after every execution.
func (e *Engine[W]) Step(world *W) {
	e.currentTick++

	var executions uint64

	for {
		if executions >= e.maxExecutionsPerTick {
			return
		}

		if e.queue.Len() == 0 {
			return
		}

		if e.queue.Peek().time > e.currentTick {
			return
		}

		entry := e.queue.Pop()

		if _, ok := e.cancelled[entry.id]; ok {
			// One-shot: the mark is consumed with the entry.
			delete(e.cancelled, entry.id)
			continue
		}

		hookCtx := HookCtx{
			Domain: e,
			Pos:    HookPosBeforeEvent,
			Item: Execution{
				ID:    entry.id,
				Tick:  e.currentTick,
				Event: entry.event,
			},
		}
		e.InvokeHook(hookCtx)

		entry.event.Execute(world, e.currentTick, e.scheduler())

		executions++
		e.totalExecuted++

		hookCtx.Pos = HookPosAfterEvent
		e.InvokeHook(hookCtx)
	}
}

// StepUntil calls Step until the current tick reaches targetTick. It
// produces the same world state and execution order as calling Step that
// many times individually.
func (e *Engine[W]) StepUntil(targetTick Tick, world *W) {
	for e.currentTick < targetTick {
		e.Step(world)
	}
}

// CurrentTick returns the tick the engine is at.
func (e *Engine[W]) CurrentTick() Tick {
	return e.currentTick
}

// QueueSize returns the number of entries waiting in the queue, including
// entries already marked for cancellation.
func (e *Engine[W]) QueueSize() int {
	return e.queue.Len()
}

// TotalExecutions returns the number of events executed so far.
func (e *Engine[W]) TotalExecutions() uint64 {
	return e.totalExecuted
}
