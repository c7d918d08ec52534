package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrollock-dev/scrollock/internal/errors"
)

// version is the release version injected at build time; "dev" means the
// binary was built from source and build info is consulted instead.
var version = "dev"

const banner = `
  ╔═╗┌─┐┬─┐┌─┐┬  ┬  ┌─┐┌─┐┬┌─
  ╚═╗│  ├┬┘│ ││  │  │ ││  ├┴┐
  ╚═╝└─┘┴└─└─┘┴─┘┴─┘└─┘└─┘┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrollock",
		Short: "Shared overflow state for browser documents",
		Long: `Scrollock keeps scroll-overflow styles in sync between a Go server
and connected browser documents.

The server holds the authoritative overflow state per session and
streams style patches to the client over WebSocket. Features include:

  • Observable per-axis overflow state
  • Hide and restore scrolling per axis or across all axes
  • Resumable sessions with full style resync on reconnect
  • Prometheus metrics and OpenTelemetry tracing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Scrollock ASCII art banner.
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

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
