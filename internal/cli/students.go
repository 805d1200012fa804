package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusops/feetrack/internal/db"
	"github.com/campusops/feetrack/internal/export"
	"github.com/campusops/feetrack/internal/validate"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name        string
	Roll        string
	Department  string
	Fee         string
	ReceiptPath string
}

// NewAddCommand creates the add command: a validated student submission.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a fee submission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "student name")
	cmd.Flags().StringVar(&opts.Roll, "roll", "", "roll number")
	cmd.Flags().StringVar(&opts.Department, "department", "", "department")
	cmd.Flags().StringVar(&opts.Fee, "fee", "", "fee amount")
	cmd.Flags().StringVar(&opts.ReceiptPath, "receipt", "", "path to the receipt file")
	for _, flag := range []string{"name", "roll", "department", "fee"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions) error {
	name, err := validate.Name(opts.Name)
	if err != nil {
		return err
	}
	roll, err := validate.Roll(opts.Roll)
	if err != nil {
		return err
	}
	fee, err := validate.Fee(opts.Fee)
	if err != nil {
		return err
	}

	m, err := db.Open(opts.Config.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = m.Close() }()

	id, err := m.InsertStudent(cmd.Context(), db.StudentInsert{
		Name:        name,
		Roll:        roll,
		Department:  opts.Department,
		FeeAmount:   fee,
		ReceiptPath: opts.ReceiptPath,
	})
	if err != nil {
		return fmt.Errorf("insert student: %w", err)
	}

	opts.Logger.Info("student inserted", "id", id, "roll", roll)
	fmt.Fprintf(cmd.OutOrStdout(), "submission %d recorded for %s\n", id, roll)
	return nil
}

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Status string
	Notes  string
}

// NewVerifyCommand creates the verify command: moves a submission to a
// new receipt status and records the change in the audit trail.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <student-id>",
		Short: "Update a submission's receipt status",
		Long: `Update a submission's receipt status and append the change to the
student's audit trail.

Example:
  feetrack verify 3 --status Verified --notes "receipt checked"
  feetrack verify 3 --status Rejected`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "new receipt status (Pending, Verified, or Rejected)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "notes to attach to the submission")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *VerifyOptions, rawID string) error {
	id, err := parseStudentID(rawID)
	if err != nil {
		return err
	}
	status, err := normalizeStatus(opts.Status)
	if err != nil {
		return err
	}

	m, err := db.Open(opts.Config.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = m.Close() }()

	if err := m.UpdateReceiptStatus(cmd.Context(), id, status, opts.Notes); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	opts.Logger.Info("receipt status updated", "id", id, "status", status)
	fmt.Fprintf(cmd.OutOrStdout(), "submission %d marked %s\n", id, status)
	return nil
}

// NewSearchCommand creates the search command: student lookup by name or
// roll number.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search submissions by name or roll number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := db.Open(rootOpts.Config.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = m.Close() }()

			students, err := m.SearchStudents(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search students: %w", err)
			}
			if len(students) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no submissions match", args[0])
				return nil
			}
			for _, s := range students {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%.2f\t%s\n",
					s.ID, s.Roll, s.Name, s.Department, s.FeeAmount, s.ReceiptStatus)
			}
			return nil
		},
	}
}

// NewHistoryCommand creates the history command: a student's audit trail
// oldest first.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <student-id>",
		Short: "Show a submission's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStudentID(args[0])
			if err != nil {
				return err
			}

			m, err := db.Open(rootOpts.Config.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = m.Close() }()

			// Resolve the student first so an unknown id is reported
			// rather than printing an empty trail.
			student, err := m.StudentByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load student: %w", err)
			}
			trail, err := m.AuditTrail(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load audit trail: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) - %s\n", student.Name, student.Roll, student.ReceiptStatus)
			for _, entry := range trail {
				when := time.UnixMilli(entry.CreatedAt).Format("2006-01-02 15:04:05")
				if entry.OldStatus != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s -> %s\t(%s)\n",
						when, entry.Action, entry.OldStatus, entry.NewStatus, entry.PerformedBy)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t(%s)\n",
					when, entry.Action, entry.NewStatus, entry.PerformedBy)
			}
			return nil
		},
	}
}

func parseStudentID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("student id must be a positive integer, got %q", raw)
	}
	return id, nil
}

func normalizeStatus(raw string) (string, error) {
	for _, status := range []string{db.StatusPending, db.StatusVerified, db.StatusRejected} {
		if strings.EqualFold(raw, status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("status must be Pending, Verified, or Rejected, got %q", raw)
}

// NewStatusCommand creates the status command: database health plus
// submission statistics.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database health and submission statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := db.Open(rootOpts.Config.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = m.Close() }()

			health := m.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "database: %s (%s, %d bytes, wal %d bytes)\n",
				m.Path(), health.DBStatus, health.DBSizeBytes, health.WALSize)

			stats, err := m.Statistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("query statistics: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "students: %d total, %d pending, %d verified, %d rejected\n",
				stats.Total, stats.Pending, stats.Verified, stats.Rejected)
			fmt.Fprintf(cmd.OutOrStdout(), "verified fees: %.2f\n", stats.TotalVerifiedFee)
			return nil
		},
	}
}

// NewExportCommand creates the export command: CSV dump of all students.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all submissions to a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := db.Open(rootOpts.Config.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = m.Close() }()

			students, err := m.AllStudents(cmd.Context())
			if err != nil {
				return fmt.Errorf("load students: %w", err)
			}
			path, err := export.WriteCSV(rootOpts.Config.ExportDir, students)
			if err != nil {
				return err
			}
			rootOpts.Logger.Info("export written", "path", path, "rows", len(students))
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d submissions to %s\n", len(students), path)
			return nil
		},
	}
}
