package sync

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

	rateTypeName     string
	categorySpecific bool
	itemSpecific     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create missing entities in NEMO from SNSF spreadsheets",
		Long: `Run one reconciling sync job: normalize the SNSF spreadsheets, skip
records whose natural key already exists in the downloaded lookups, and
create the rest. Safe to rerun: existing records are skipped, so a rerun is
the retry mechanism for partial failures.

Run order for a full migration: accounts, projects, users, tools, rates,
interlocks.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override the data directory")

	for _, entity := range migration.SyncOrder {
		cmd.AddCommand(newEntityCommand(entity))
	}
	cmd.AddCommand(newAllCommand(), newRateTypeCommand())

	return cmd
}

func newEntityCommand(entity string) *cobra.Command {
	return &cobra.Command{
		Use:   entity,
		Short: fmt.Sprintf("Create missing %s", entity),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := initEnv()
			if err != nil {
				return err
			}
			if _, err := runner.Sync(cmd.Context(), entity); err != nil {
				return fmt.Errorf("sync %s failed: %w", entity, err)
			}
			return nil
		},
	}
}

func newAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every entity sync in dependency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := initEnv()
			if err != nil {
				return err
			}
			if err := runner.SyncAll(cmd.Context()); err != nil {
				return fmt.Errorf("sync all failed: %w", err)
			}
			return nil
		},
	}
}

func newRateTypeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate-type",
		Short: "Create a single billing rate type",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := initEnv()
			if err != nil {
				return err
			}
			if err := runner.CreateRateType(cmd.Context(), rateTypeName, categorySpecific, itemSpecific); err != nil {
				return fmt.Errorf("create rate type failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rateTypeName, "type", "", "Rate type name, e.g. TOOL_STAFF_CHARGE (required)")
	cmd.Flags().BoolVar(&categorySpecific, "category-specific", true, "Rate type is category specific")
	cmd.Flags().BoolVar(&itemSpecific, "item-specific", true, "Rate type is item specific")
	cmd.MarkFlagRequired("type")

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
