package main

import (
	"math/rand"

	"github.com/ticklab/ticksim/sim"
)

type spawnWorld struct {
	rng      *rand.Rand
	executed uint64
	spawned  uint64
}

// spawningEvent counts its execution and, half of the time, schedules three
// more of itself five ticks out. Budget pressure keeps the storm bounded.
type spawningEvent struct{}

func (spawningEvent) Execute(
	w *spawnWorld,
	_ sim.Tick,
	scheduler *sim.Scheduler[spawnWorld],
) {
	w.executed++

	if w.rng.Float64() < 0.5 {
		for i := 0; i < 3; i++ {
			scheduler.Schedule(spawningEvent{}, 5)
			w.spawned++
		}
	}
}
