// Package run sequences a full initialization: open the database, ensure
// the schema, then seed sample data when configured. Every outcome is
// recorded to the operation log before it is returned.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campusops/feetrack/internal/config"
	"github.com/campusops/feetrack/internal/db"
	"github.com/campusops/feetrack/internal/oplog"
)

// Outcome is the structured result of one Run. Err carries the primary
// failure; LogErr is set separately when the operation log itself could
// not be written, so callers never mistake a logging failure for a
// database failure.
type Outcome struct {
	RunID  string
	State  State
	Seeded bool
	Kind   Kind
	Err    error
	LogErr error
}

func (o Outcome) Failed() bool {
	return o.State == StateFailed
}

// Orchestrator drives one initialization run at a time. It owns the
// database handle for the duration of Run and releases it on every exit
// path; the operation log sink is injected so tests can capture entries
// in memory.
type Orchestrator struct {
	cfg    *config.Config
	logger *slog.Logger
	sink   *oplog.Sink
}

func New(cfg *config.Config, logger *slog.Logger, sink *oplog.Sink) *Orchestrator {
	return &Orchestrator{cfg: cfg, logger: logger, sink: sink}
}

// Run executes the state machine. It never panics across this boundary:
// downstream failures come back as a FAILED outcome with a classified
// kind, always recorded to the operation log first.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)
	out := Outcome{RunID: runID, State: StateNotStarted}

	m, err := db.Open(o.cfg.DBPath)
	if err != nil {
		return o.fail(logger, out, KindConnection,
			fmt.Errorf("open database: %w", err),
			fmt.Sprintf("Database connection failed: %v", err))
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			logger.Warn("db close failed", "error", closeErr)
		}
	}()

	if err := m.EnsureSchema(ctx); err != nil {
		return o.fail(logger, out, KindSchema,
			fmt.Errorf("initialize schema: %w", err),
			fmt.Sprintf("Database initialization failed: %v", err))
	}
	out.State = StateSchemaReady
	logger.Info("schema ready", "path", m.Path())
	if err := o.sink.Record(oplog.LevelInfo, "Database initialized successfully"); err != nil {
		out.State = StateFailed
		out.Kind = KindLogWrite
		out.LogErr = err
		out.Err = err
		return out
	}

	if !o.cfg.SeedSampleData {
		logger.Info("seeding disabled, run complete", "state", out.State.String())
		checkpoint(ctx, m, logger)
		return out
	}

	seeded, err := m.SeedSampleData(ctx)
	if err != nil {
		kind := KindSchema
		if errors.Is(err, db.ErrSeedIntegrity) {
			kind = KindSeedIntegrity
		}
		return o.fail(logger, out, kind,
			fmt.Errorf("seed sample data: %w", err),
			fmt.Sprintf("Sample data insert failed: %v", err))
	}
	out.State = StateSeeded
	out.Seeded = seeded
	if seeded {
		if err := o.sink.Record(oplog.LevelInfo, "Sample data inserted"); err != nil {
			out.State = StateFailed
			out.Kind = KindLogWrite
			out.LogErr = err
			out.Err = err
			return out
		}
		logger.Info("sample data inserted")
	} else {
		logger.Info("sample data already present, seed skipped")
	}

	checkpoint(ctx, m, logger)
	return out
}

// checkpoint truncates the WAL after a successful run so the database
// file is self-contained when the handle is released. Best effort: a
// failure is worth a warning, not a failed run.
func checkpoint(ctx context.Context, m *db.Manager, logger *slog.Logger) {
	if err := m.Checkpoint(ctx); err != nil {
		logger.Warn("wal checkpoint failed", "error", err)
	}
}

func (o *Orchestrator) fail(logger *slog.Logger, out Outcome, kind Kind, err error, logLine string) Outcome {
	out.State = StateFailed
	out.Kind = kind
	out.Err = err
	logger.Error("run failed", "kind", kind.String(), "error", err)
	if recErr := o.sink.Record(oplog.LevelError, logLine); recErr != nil {
		out.LogErr = recErr
	}
	return out
}
