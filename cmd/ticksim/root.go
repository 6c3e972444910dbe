package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ticksim",
	Short: "Ticksim drives tick-based discrete-event simulations.",
	Long: `Ticksim drives tick-based discrete-event simulations. It ships a ` +
		`built-in stochastic workload and can record execution traces to ` +
		`SQLite and serve a live monitoring API.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can provide TICKSIM_* defaults; absence is fine.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
