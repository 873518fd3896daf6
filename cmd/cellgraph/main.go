package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cellgraph",
		Short: "Fine-grained reactive cell graph runtime",
		Long: `Cellgraph models application state as composable reactive cells,
derived values, and side-effecting watchers that stay consistent
automatically as dependencies change.

  • Lazy derived cells with equality-based update suppression
  • Batched writes settling in one pass
  • Subscription-counted bridges for external event sources
  • Reactive map/set/list/record collections`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cellgraph %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
