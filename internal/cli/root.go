// Package cli wires the feetrack commands. Configuration comes from the
// environment (with an optional .env file); flags override per
// invocation.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/campusops/feetrack/internal/config"
	"github.com/campusops/feetrack/internal/logging"
	"github.com/campusops/feetrack/internal/version"
)

// RootOptions carries state shared by every command.
type RootOptions struct {
	Verbose bool

	Config *config.Config
	Logger *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "feetrack",
		Short:         "Fee submission database tool",
		Long:          "feetrack initializes and manages the local fee submission database.\nEvery operation is recorded to a persistent, timestamped log file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is fine; explicit env vars still apply.
			_ = godotenv.Load()

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.Config = cfg

			level := cfg.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			logger, err := logging.Setup(level)
			if err != nil {
				return err
			}
			opts.Logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		NewInitCommand(opts),
		NewAddCommand(opts),
		NewVerifyCommand(opts),
		NewSearchCommand(opts),
		NewHistoryCommand(opts),
		NewStatusCommand(opts),
		NewExportCommand(opts),
		NewEnvCommand(),
		NewVersionCommand(),
	)
	return cmd
}

// NewEnvCommand lists the environment variables feetrack reads.
func NewEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List recognized environment variables",
		Run: func(cmd *cobra.Command, _ []string) {
			config.WriteHelp(cmd.OutOrStdout(), version.String())
		},
	}
}

// Execute runs the CLI and returns the process exit code: 0 on success,
// non-zero on any failed run so shell callers can branch on it.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "feetrack: %v\n", err)
		return 1
	}
	return 0
}

// NewVersionCommand reports the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the feetrack version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "feetrack", version.String())
		},
	}
}
