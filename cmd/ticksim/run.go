package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/ticklab/ticksim/datarecording"
	"github.com/ticklab/ticksim/monitoring"
	"github.com/ticklab/ticksim/sim"
	"github.com/ticklab/ticksim/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the built-in spawning workload.",
	Long: `Run executes a stochastic workload: one seed event that, on each ` +
		`execution, spawns more of itself with some probability. The ` +
		`workload is deterministic for a fixed seed.`,
	Run: runWorkload,
}

func init() {
	runCmd.Flags().Uint64("ticks", 1000, "number of ticks to simulate")
	runCmd.Flags().Uint64("budget", 100, "max event executions per tick")
	runCmd.Flags().Int64("seed", 1, "random seed for the workload")
	runCmd.Flags().String("record", "",
		"record an execution trace into this SQLite database")
	runCmd.Flags().Int("monitor-port", envInt("TICKSIM_MONITOR_PORT", 0),
		"serve the monitoring API on this port (0 picks a random port)")
	runCmd.Flags().Bool("monitor", false, "enable the monitoring server")
	runCmd.Flags().Bool("open", false,
		"open the monitoring URL in a browser")

	rootCmd.AddCommand(runCmd)
}

func runWorkload(cmd *cobra.Command, _ []string) {
	ticks, _ := cmd.Flags().GetUint64("ticks")
	budget, _ := cmd.Flags().GetUint64("budget")
	seed, _ := cmd.Flags().GetInt64("seed")
	recordPath, _ := cmd.Flags().GetString("record")
	monitorPort, _ := cmd.Flags().GetInt("monitor-port")
	monitorOn, _ := cmd.Flags().GetBool("monitor")
	open, _ := cmd.Flags().GetBool("open")

	if recordPath == "" {
		recordPath = os.Getenv("TICKSIM_RECORD")
	}

	world := &spawnWorld{rng: rand.New(rand.NewSource(seed))}
	engine := sim.NewEngine[spawnWorld]().
		WithMaxExecutionsPerTick(budget).
		WithInitialEventPool([]sim.PendingEvent[spawnWorld]{
			{Event: spawningEvent{}, Delay: 1},
		})

	var runRecorder *tracing.RunRecorder
	if recordPath != "" {
		writer := datarecording.NewSQLiteWriter(recordPath)
		engine.AcceptHook(tracing.NewTracer(writer))

		runRecorder = tracing.NewRunRecorder(writer)
		runRecorder.Start()
	}

	if monitorOn {
		monitor := monitoring.NewMonitor(engine, world)
		if monitorPort != 0 {
			monitor.WithPortNumber(monitorPort)
		}
		addr := monitor.StartServer()

		if open {
			err := browser.OpenURL(addr + "/api/now")
			if err != nil {
				fmt.Fprintf(os.Stderr,
					"cannot open browser: %s\n", err)
			}
		}
	}

	engine.StepUntil(sim.Tick(ticks), world)

	if runRecorder != nil {
		runRecorder.End()
	}

	fmt.Printf("ticks: %d\n", engine.CurrentTick())
	fmt.Printf("events executed: %d\n", engine.TotalExecutions())
	fmt.Printf("events spawned: %d\n", world.spawned)
	fmt.Printf("queue left: %d\n", engine.QueueSize())

	atexit.Exit(0)
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
