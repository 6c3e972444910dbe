package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventLogger", func() {
	It("should log one line per executed event", func() {
		buf := &bytes.Buffer{}
		logger := NewEventLogger(log.New(buf, "", 0))

		engine := NewEngine[testWorld]().WithMaxExecutionsPerTick(100)
		engine.AcceptHook(logger)

		world := &testWorld{}
		engine.Schedule(markEvent{name: "a"}, 1)
		engine.Step(world)

		Expect(buf.String()).To(ContainSubstring("tick 1, event 1"))
		Expect(buf.String()).To(ContainSubstring("markEvent"))
	})
})
