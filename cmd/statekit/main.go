package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statekit-go/statekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐┌─┐┌┬┐┌─┐┬┌─┬┌┬┐
  └─┐ │ ├─┤ │ ├┤ ├┴┐│ │
  └─┘ ┴ ┴ ┴ ┴ └─┘┴ ┴┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "statekit",
		Short: "Centralized reactive state for Go",
		Long: `Statekit is a centralized reactive state registry for Go.

Models live in a registry, mutate through leased drafts, and notify
subscribers through a deferred run-to-completion effect queue.

This CLI offers:

  • An in-process kernel benchmark with built-in load profiles
  • A demo registry with a live devtools server
  • Prometheus metrics and OpenTelemetry tracing out of the box`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the statekit ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
