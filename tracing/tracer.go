// Package tracing records executed events into a database for offline
// inspection.
package tracing

import (
	"reflect"
	"time"

	"github.com/tebeka/atexit"

	"github.com/ticklab/ticksim/datarecording"
	"github.com/ticklab/ticksim/sim"
)

type executionEntry struct {
	EventID    uint64
	Tick       uint64
	Kind       string
	DurationNS int64
}

// A Tracer is a hook that writes one row per executed event. Attach it with
// engine.AcceptHook.
type Tracer struct {
	backend datarecording.DataRecorder

	inFlight map[uint64]time.Time
}

// NewTracer creates a Tracer that stores rows through the given backend.
func NewTracer(backend datarecording.DataRecorder) *Tracer {
	t := &Tracer{
		backend:  backend,
		inFlight: make(map[uint64]time.Time),
	}

	t.backend.CreateTable("trace_executions", executionEntry{})

	atexit.Register(func() { t.backend.Flush() })

	return t
}

// Func records execution start and end. The engine is single-threaded, so
// at most one execution is in flight per before/after pair.
func (t *Tracer) Func(ctx sim.HookCtx) {
	exec, ok := ctx.Item.(sim.Execution)
	if !ok {
		return
	}

	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		t.inFlight[exec.ID] = time.Now()
	case sim.HookPosAfterEvent:
		start, ok := t.inFlight[exec.ID]
		if !ok {
			return
		}
		delete(t.inFlight, exec.ID)

		t.backend.InsertData("trace_executions", executionEntry{
			EventID:    exec.ID,
			Tick:       uint64(exec.Tick),
			Kind:       reflect.TypeOf(exec.Event).String(),
			DurationNS: time.Since(start).Nanoseconds(),
		})
	}
}
