package sim

import (
	"log"
	"reflect"
)

// EventLogger is a hook that prints a line for every executed event.
type EventLogger struct {
	Logger *log.Logger
}

// NewEventLogger returns an EventLogger that writes into the given logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Func writes the execution information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	exec, ok := ctx.Item.(Execution)
	if !ok {
		return
	}

	h.Logger.Printf("tick %d, event %d, %s",
		exec.Tick, exec.ID, reflect.TypeOf(exec.Event))
}
