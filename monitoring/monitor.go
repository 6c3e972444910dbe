// Package monitoring turns a running simulation into an HTTP server so the
// engine can be observed and driven from outside the process.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/ticklab/ticksim/sim"
)

// Monitor exposes one engine and its world over an HTTP API.
//
// The engine itself is single-threaded, so the monitor serializes every
// request that touches it behind one lock.
type Monitor[W any] struct {
	engine *sim.Engine[W]
	world  *W

	engineLock sync.Mutex
	portNumber int
}

// NewMonitor creates a Monitor over the given engine and world.
func NewMonitor[W any](engine *sim.Engine[W], world *W) *Monitor[W] {
	return &Monitor[W]{
		engine: engine,
		world:  world,
	}
}

// WithPortNumber sets the port the server listens on. Ports below 1000 are
// rejected and a random port is used instead.
func (m *Monitor[W]) WithPortNumber(portNumber int) *Monitor[W] {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// StartServer starts serving the API and returns the address it listens on.
func (m *Monitor[W]) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/queue", m.queueSize)
	r.HandleFunc("/api/total", m.totalExecutions)
	r.HandleFunc("/api/step", m.step)
	r.HandleFunc("/api/run/{ticks}", m.run)
	r.HandleFunc("/api/world", m.inspectWorld)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	addr := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", addr)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()

	return addr
}

func (m *Monitor[W]) now(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	now := m.engine.CurrentTick()
	m.engineLock.Unlock()

	fmt.Fprintf(w, "{\"now\":%d}", now)
}

func (m *Monitor[W]) queueSize(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	size := m.engine.QueueSize()
	m.engineLock.Unlock()

	fmt.Fprintf(w, "{\"queue_size\":%d}", size)
}

func (m *Monitor[W]) totalExecutions(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	total := m.engine.TotalExecutions()
	m.engineLock.Unlock()

	fmt.Fprintf(w, "{\"total_executions\":%d}", total)
}

func (m *Monitor[W]) step(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	m.engine.Step(m.world)
	now := m.engine.CurrentTick()
	m.engineLock.Unlock()

	fmt.Fprintf(w, "{\"now\":%d}", now)
}

func (m *Monitor[W]) run(w http.ResponseWriter, r *http.Request) {
	ticks, err := strconv.ParseUint(mux.Vars(r)["ticks"], 10, 64)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	go func() {
		m.engineLock.Lock()
		defer m.engineLock.Unlock()

		m.engine.StepUntil(
			m.engine.CurrentTick()+sim.Tick(ticks), m.world)
	}()

	w.WriteHeader(200)
}

func (m *Monitor[W]) inspectWorld(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	defer m.engineLock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.world)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor[W]) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor[W]) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	out, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(out)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
