package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusops/feetrack/internal/oplog"
	"github.com/campusops/feetrack/internal/run"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Database string
	OpLog    string
	NoSeed   bool
}

// NewInitCommand creates the init command: idempotent schema setup plus
// optional sample-data seeding, with every outcome recorded to the
// operation log.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the fee database",
		Long: `Initialize the fee database schema and optionally seed sample records.

Initialization is idempotent: running init against an already initialized
database leaves existing data untouched. Seeding is a single transaction;
a database that already holds students is not re-seeded.

Example:
  feetrack init --db ./data/fees.db
  feetrack init --no-seed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite database (overrides FEETRACK_DB_PATH)")
	cmd.Flags().StringVar(&opts.OpLog, "op-log", "", "path to the operation log file (overrides FEETRACK_OP_LOG_PATH)")
	cmd.Flags().BoolVar(&opts.NoSeed, "no-seed", false, "skip sample data seeding")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	cfg := *opts.Config
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.OpLog != "" {
		cfg.OpLogPath = opts.OpLog
	}
	if opts.NoSeed {
		cfg.SeedSampleData = false
	}

	sink, err := oplog.Open(cfg.OpLogPath)
	if err != nil {
		return fmt.Errorf("open operation log: %w", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			opts.Logger.Warn("close operation log failed", "error", closeErr)
		}
	}()

	out := run.New(&cfg, opts.Logger, sink).Run(cmd.Context())
	if out.Failed() {
		if out.LogErr != nil && out.Kind != run.KindLogWrite {
			opts.Logger.Error("operation log write also failed", "error", out.LogErr)
		}
		return fmt.Errorf("init %s: %w", out.Kind, out.Err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s (state %s)\n", cfg.DBPath, out.State)
	return nil
}
