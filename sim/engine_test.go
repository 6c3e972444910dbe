package sim

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type testWorld struct {
	gold int
	logs []string
	ids  []uint64
}

type markEvent struct {
	name string
}

func (e markEvent) Execute(w *testWorld, now Tick, _ *Scheduler[testWorld]) {
	w.logs = append(w.logs, fmt.Sprintf("%s@%d", e.name, now))
}

type minerEvent struct {
	amount int
}

func (e minerEvent) Execute(w *testWorld, now Tick, s *Scheduler[testWorld]) {
	w.gold += e.amount
	w.logs = append(w.logs, fmt.Sprintf("mined@%d", now))

	s.Schedule(minerEvent{amount: e.amount}, 5)
}

type explosionEvent struct{}

func (e explosionEvent) Execute(w *testWorld, now Tick, _ *Scheduler[testWorld]) {
	w.logs = append(w.logs, fmt.Sprintf("boom@%d", now))
}

type spawnEvent struct {
	child Event[testWorld]
	delay Tick
}

func (e spawnEvent) Execute(w *testWorld, now Tick, s *Scheduler[testWorld]) {
	w.logs = append(w.logs, fmt.Sprintf("spawn@%d", now))
	id := s.Schedule(e.child, e.delay)
	w.ids = append(w.ids, id)
}

var _ = Describe("Engine", func() {
	var (
		engine *Engine[testWorld]
		world  *testWorld
	)

	BeforeEach(func() {
		engine = NewEngine[testWorld]().WithMaxExecutionsPerTick(100)
		world = &testWorld{}
	})

	It("should execute events in ascending tick order", func() {
		engine.Schedule(markEvent{name: "late"}, 3)
		engine.Schedule(markEvent{name: "early"}, 1)
		engine.Schedule(markEvent{name: "middle"}, 2)

		engine.StepUntil(5, world)

		Expect(world.logs).To(Equal([]string{
			"early@1", "middle@2", "late@3",
		}))
	})

	It("should execute same-tick events in scheduling order", func() {
		engine.Schedule(markEvent{name: "first"}, 2)
		engine.Schedule(markEvent{name: "second"}, 2)

		engine.StepUntil(3, world)

		Expect(world.logs).To(Equal([]string{"first@2", "second@2"}))
	})

	It("should advance exactly one tick per step", func() {
		Expect(engine.CurrentTick()).To(Equal(Tick(0)))

		engine.Step(world)
		Expect(engine.CurrentTick()).To(Equal(Tick(1)))

		engine.Schedule(markEvent{name: "a"}, 1)
		engine.Schedule(markEvent{name: "b"}, 1)
		engine.Step(world)
		Expect(engine.CurrentTick()).To(Equal(Tick(2)))
	})

	It("should return strictly increasing ids starting at 1", func() {
		id1 := engine.Schedule(markEvent{name: "a"}, 1)
		id2 := engine.Schedule(markEvent{name: "b"}, 7)
		Expect(id1).To(Equal(uint64(1)))
		Expect(id2).To(Equal(uint64(2)))

		engine.Schedule(spawnEvent{child: markEvent{name: "c"}, delay: 1}, 2)
		engine.StepUntil(4, world)

		// The id handed out during execution continues the same sequence.
		Expect(world.ids).To(Equal([]uint64{4}))
	})

	It("should not execute more events than the budget in one step", func() {
		engine.WithMaxExecutionsPerTick(2)

		for _, name := range []string{"a", "b", "c", "d", "e"} {
			engine.Schedule(markEvent{name: name}, 1)
		}

		engine.Step(world)
		Expect(world.logs).To(Equal([]string{"a@1", "b@1"}))
		Expect(engine.QueueSize()).To(Equal(3))

		// Overdue entries run on later steps, at the later tick.
		engine.Step(world)
		Expect(world.logs).To(Equal([]string{
			"a@1", "b@1", "c@2", "d@2",
		}))

		engine.Step(world)
		Expect(world.logs).To(HaveLen(5))
		Expect(world.logs[4]).To(Equal("e@3"))
	})

	It("should discard cancelled entries without charging the budget", func() {
		engine.WithMaxExecutionsPerTick(2)

		victim := engine.Schedule(markEvent{name: "victim"}, 1)
		engine.Schedule(markEvent{name: "a"}, 1)
		engine.Schedule(markEvent{name: "b"}, 1)

		engine.Cancel(victim)
		engine.Cancel(victim) // idempotent

		engine.Step(world)

		Expect(world.logs).To(Equal([]string{"a@1", "b@1"}))
		Expect(engine.TotalExecutions()).To(Equal(uint64(2)))
		Expect(engine.QueueSize()).To(Equal(0))
	})

	It("should ignore cancellation of an already executed event", func() {
		id := engine.Schedule(markEvent{name: "done"}, 1)

		engine.Step(world)
		engine.Cancel(id)
		engine.StepUntil(5, world)

		Expect(world.logs).To(Equal([]string{"done@1"}))
		Expect(engine.TotalExecutions()).To(Equal(uint64(1)))
	})

	It("should allow events to cancel future events", func() {
		target := engine.Schedule(markEvent{name: "doomed"}, 5)
		engine.Schedule(cancelEvent{target: &target}, 2)

		engine.StepUntil(10, world)

		Expect(world.logs).To(Equal([]string{"cancel@2"}))
	})

	It("should panic instead of wrapping when a delay overflows", func() {
		engine.Step(world)

		Expect(func() {
			engine.Schedule(markEvent{name: "far"}, Tick(math.MaxUint64))
		}).To(Panic())
	})

	It("should run zero-delay follow-ups within the same step", func() {
		engine.Schedule(spawnEvent{child: markEvent{name: "child"}, delay: 0}, 1)

		engine.Step(world)

		Expect(world.logs).To(Equal([]string{"spawn@1", "child@1"}))
	})

	It("should produce the same run through StepUntil and repeated Step", func() {
		pool := []PendingEvent[testWorld]{
			{Event: minerEvent{amount: 10}, Delay: 1},
			{Event: explosionEvent{}, Delay: 12},
		}

		until := NewEngine[testWorld]().
			WithMaxExecutionsPerTick(100).
			WithInitialEventPool(pool)
		untilWorld := &testWorld{}
		until.StepUntil(20, untilWorld)

		stepped := NewEngine[testWorld]().
			WithMaxExecutionsPerTick(100).
			WithInitialEventPool(pool)
		steppedWorld := &testWorld{}
		for i := 0; i < 20; i++ {
			stepped.Step(steppedWorld)
		}

		Expect(untilWorld.logs).To(Equal(steppedWorld.logs))
		Expect(untilWorld.gold).To(Equal(steppedWorld.gold))
		Expect(until.CurrentTick()).To(Equal(stepped.CurrentTick()))
	})

	It("should interleave a recurring and a one-shot event correctly", func() {
		engine.WithInitialEventPool([]PendingEvent[testWorld]{
			{Event: minerEvent{amount: 10}, Delay: 1},
			{Event: explosionEvent{}, Delay: 12},
		})

		engine.StepUntil(20, world)

		Expect(world.gold).To(Equal(40))
		Expect(world.logs).To(Equal([]string{
			"mined@1", "mined@6", "mined@11", "boom@12", "mined@16",
		}))
		Expect(engine.CurrentTick()).To(Equal(Tick(20)))
	})
})

type cancelEvent struct {
	target *uint64
}

func (e cancelEvent) Execute(w *testWorld, now Tick, s *Scheduler[testWorld]) {
	w.logs = append(w.logs, fmt.Sprintf("cancel@%d", now))
	s.Cancel(*e.target)
}
