package monitoring

import (
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ticklab/ticksim/sim"
)

type counterWorld struct {
	count int
}

type countEvent struct{}

func (countEvent) Execute(
	w *counterWorld,
	_ sim.Tick,
	s *sim.Scheduler[counterWorld],
) {
	w.count++
	s.Schedule(countEvent{}, 1)
}

var _ = Describe("Monitor", func() {
	var (
		engine *sim.Engine[counterWorld]
		world  *counterWorld
		m      *Monitor[counterWorld]
	)

	BeforeEach(func() {
		engine = sim.NewEngine[counterWorld]().WithMaxExecutionsPerTick(100)
		world = &counterWorld{}
		engine.Schedule(countEvent{}, 1)

		m = NewMonitor(engine, world)
	})

	It("should report the current tick", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/now", nil)

		m.now(w, r)

		Expect(w.Body.String()).To(Equal(`{"now":0}`))
	})

	It("should report the queue size", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/queue", nil)

		m.queueSize(w, r)

		Expect(w.Body.String()).To(Equal(`{"queue_size":1}`))
	})

	It("should step the engine", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/step", nil)

		m.step(w, r)

		Expect(w.Body.String()).To(Equal(`{"now":1}`))
		Expect(world.count).To(Equal(1))
	})

	It("should report total executions", func() {
		engine.StepUntil(3, world)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/total", nil)

		m.totalExecutions(w, r)

		Expect(w.Body.String()).To(Equal(`{"total_executions":3}`))
	})
})
