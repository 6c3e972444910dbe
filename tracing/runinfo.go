package tracing

import (
	"os"
	"strings"
	"time"

	"github.com/ticklab/ticksim/datarecording"
)

type runInfoEntry struct {
	Property string
	Value    string
}

// A RunRecorder stores metadata about one simulation run next to its trace.
type RunRecorder struct {
	backend datarecording.DataRecorder
	entries []runInfoEntry
}

// NewRunRecorder creates a RunRecorder over the given backend.
func NewRunRecorder(backend datarecording.DataRecorder) *RunRecorder {
	r := &RunRecorder{backend: backend}
	r.backend.CreateTable("run_info", runInfoEntry{})

	return r
}

// Start captures the start time and the command line.
func (r *RunRecorder) Start() {
	start := time.Now().Format("2006-01-02 15:04:05.000000000")
	r.entries = append(r.entries, runInfoEntry{"Start Time", start})

	cmd := strings.Join(os.Args, " ")
	r.entries = append(r.entries, runInfoEntry{"Command", cmd})
}

// End writes the collected entries plus the end time and flushes.
func (r *RunRecorder) End() {
	for _, entry := range r.entries {
		r.backend.InsertData("run_info", entry)
	}

	end := time.Now().Format("2006-01-02 15:04:05.000000000")
	r.backend.InsertData("run_info", runInfoEntry{"End Time", end})

	r.entries = nil
	r.backend.Flush()
}
