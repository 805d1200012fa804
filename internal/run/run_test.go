package run

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusops/feetrack/internal/config"
	"github.com/campusops/feetrack/internal/db"
	"github.com/campusops/feetrack/internal/oplog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBPath:         filepath.Join(t.TempDir(), "fees.db"),
		SeedSampleData: true,
	}
}

func logLines(buf *bytes.Buffer) []string {
	s := strings.TrimSuffix(buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestRunOnEmptyTargetInitializesAndSeeds(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	var buf bytes.Buffer
	out := New(cfg, testLogger(), oplog.New(&buf)).Run(context.Background())

	if out.Failed() {
		t.Fatalf("run failed: %+v", out)
	}
	if out.State != StateSeeded || !out.Seeded {
		t.Fatalf("state = %s seeded = %v, want SEEDED/true", out.State, out.Seeded)
	}
	if out.RunID == "" {
		t.Fatal("run id not set")
	}

	lines := logLines(&buf)
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], " - INFO - Database initialized successfully") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " - INFO - Sample data inserted") {
		t.Fatalf("second line = %q", lines[1])
	}

	// The run checkpointed before releasing the handle, so the database
	// file stands alone without a populated WAL.
	if fi, err := os.Stat(cfg.DBPath + "-wal"); err == nil && fi.Size() != 0 {
		t.Fatalf("WAL size after run = %d, want 0", fi.Size())
	}

	// Schema exists and sample rows are present.
	m, err := db.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer func() { _ = m.Close() }()
	count, err := m.StudentCount(context.Background())
	if err != nil {
		t.Fatalf("StudentCount() error = %v", err)
	}
	if count != 5 {
		t.Fatalf("student count = %d, want 5", count)
	}
}

func TestRunWithSeedingDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.SeedSampleData = false

	// Prior run established the schema; the second run must be a pure
	// idempotent re-initialization.
	var first bytes.Buffer
	if out := New(cfg, testLogger(), oplog.New(&first)).Run(context.Background()); out.Failed() {
		t.Fatalf("first run failed: %+v", out)
	}

	var buf bytes.Buffer
	out := New(cfg, testLogger(), oplog.New(&buf)).Run(context.Background())
	if out.Failed() {
		t.Fatalf("second run failed: %+v", out)
	}
	if out.State != StateSchemaReady {
		t.Fatalf("state = %s, want SCHEMA_READY", out.State)
	}

	lines := logLines(&buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], " - INFO - Database initialized successfully") {
		t.Fatalf("line = %q", lines[0])
	}

	m, err := db.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer func() { _ = m.Close() }()
	count, err := m.StudentCount(context.Background())
	if err != nil {
		t.Fatalf("StudentCount() error = %v", err)
	}
	if count != 0 {
		t.Fatalf("student count = %d, want 0 with seeding disabled", count)
	}
}

func TestRunUnreachableTarget(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("file, not a dir"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg := &config.Config{
		DBPath:         filepath.Join(blocker, "sub", "fees.db"),
		SeedSampleData: true,
	}

	var buf bytes.Buffer
	out := New(cfg, testLogger(), oplog.New(&buf)).Run(context.Background())

	if !out.Failed() {
		t.Fatalf("run succeeded against unreachable target: %+v", out)
	}
	if out.Kind != KindConnection {
		t.Fatalf("kind = %s, want connection", out.Kind)
	}
	if out.Err == nil {
		t.Fatal("outcome carries no error")
	}

	// Failure isolation: the run never got past the connection step, so
	// the only log entry is the connection failure.
	lines := logLines(&buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], " - ERROR - Database connection failed: ") {
		t.Fatalf("line = %q", lines[0])
	}
}

func TestRepeatedRunsKeepLogOrdered(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	var buf bytes.Buffer
	sink := oplog.New(&buf)

	for i := 0; i < 3; i++ {
		if out := New(cfg, testLogger(), sink).Run(context.Background()); out.Failed() {
			t.Fatalf("run %d failed: %+v", i, out)
		}
	}

	lines := logLines(&buf)
	// First run initializes and seeds; later runs only re-initialize
	// because the sample rows already exist.
	if len(lines) != 4 {
		t.Fatalf("got %d log lines, want 4: %q", len(lines), lines)
	}
	prev := ""
	for i, line := range lines {
		if strings.Contains(line, " - ERROR - ") {
			t.Fatalf("unexpected ERROR entry: %q", line)
		}
		ts := line[:23]
		if ts < prev {
			t.Fatalf("line %d timestamp %q precedes %q", i, ts, prev)
		}
		prev = ts
	}
}

func TestRunSurfacesLogWriteFailureDistinctly(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	sink := oplog.New(failingWriter{})
	out := New(cfg, testLogger(), sink).Run(context.Background())

	if !out.Failed() {
		t.Fatalf("run succeeded with unwritable log: %+v", out)
	}
	if out.Kind != KindLogWrite {
		t.Fatalf("kind = %s, want log_write", out.Kind)
	}
	if out.LogErr == nil {
		t.Fatal("LogErr not set")
	}

	// The database work itself succeeded before the log write failed.
	m, err := db.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer func() { _ = m.Close() }()
	if _, err := m.StudentCount(context.Background()); err != nil {
		t.Fatalf("schema missing after run: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrPermission
}
