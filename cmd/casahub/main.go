// CasaHub - Smart Home Hub Simulator
//
// This is the main entry point for the CasaHub application: a device
// registry with per-kind state machines, routine execution and a
// pluggable event sink chain (console, CSV, SQLite history, MQTT,
// InfluxDB).
//
// The binary exposes three subcommands:
//   - run:    interactive menu against a persisted hub snapshot
//   - demo:   scripted scenario exercising every device kind
//   - report: analytics over the CSV event streams
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) so the deferred
	// snapshot save and sink shutdown still run.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags carries the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	statePath  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "casahub",
		Short:         "Smart home hub simulator",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config.yaml (default: "+defaultConfigPath+")")
	root.PersistentFlags().StringVar(&flags.statePath, "state", "", "hub snapshot path (overrides persistence.path)")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newDemoCmd(flags))
	root.AddCommand(newReportCmd(flags))
	return root
}

// getConfigPath returns the configuration file path.
// Uses the --config flag if set, then the CASAHUB_CONFIG environment
// variable, otherwise the default.
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := os.Getenv("CASAHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
