package snapshot

import (
	"fmt"

	"github.com/spf13/cobra"

	"nemoctl/internal/application/migration"
	"nemoctl/internal/infrastructure/config"
	"nemoctl/internal/shared/logger"
)

var (
	configPath string
	dataDir    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <resource>",
		Short: "Download remote NEMO collections",
		Long: `Download one NEMO collection (or all of them), overwrite the raw JSON
snapshot, and derive the natural-key lookup used to skip existing records
during sync. Snapshots are not versioned; each run replaces the previous one.

Resources: ` + fmt.Sprint(append(migration.SnapshotNames(), "all")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(migration.SnapshotNames(), "all"),
		RunE:      run,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override the data directory")

	return cmd
}

func initEnv() (*migration.Runner, logger.Interface, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	runner, err := migration.NewRunner(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return runner, log, nil
}

func run(cmd *cobra.Command, args []string) error {
	runner, log, err := initEnv()
	if err != nil {
		return err
	}

	resource := args[0]
	log.Infow("starting snapshot", "resource", resource)

	if resource == "all" {
		if err := runner.SnapshotAll(cmd.Context()); err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}
		return nil
	}
	if err := runner.Snapshot(cmd.Context(), resource); err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	return nil
}
