package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nemoctl/internal/interfaces/cli/snapshot"
	"nemoctl/internal/interfaces/cli/sync"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nemoctl",
		Short: "nemoctl - SNSF to NEMO migration toolset",
		Long: `nemoctl migrates accounts, projects, users, tools, rates, and interlock
cards from SNSF spreadsheet exports into NEMO via its REST API. Each command
is an independent batch job driven by local data files and lookup snapshots.`,
	}

	rootCmd.AddCommand(
		snapshot.NewCommand(),
		sync.NewCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
