package db

import (
	"context"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS students (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  roll TEXT NOT NULL UNIQUE,
  department TEXT NOT NULL,
  fee_amount REAL NOT NULL,
  receipt_path TEXT,
  receipt_status TEXT NOT NULL DEFAULT 'Pending',
  submitted_at INTEGER NOT NULL,
  updated_at INTEGER,
  notes TEXT
);

CREATE TABLE IF NOT EXISTS audit_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  entry_id TEXT NOT NULL UNIQUE,
  student_id INTEGER,
  action TEXT NOT NULL,
  old_status TEXT,
  new_status TEXT,
  performed_by TEXT NOT NULL DEFAULT 'Admin',
  created_at INTEGER NOT NULL,
  FOREIGN KEY (student_id) REFERENCES students(id)
);

CREATE INDEX IF NOT EXISTS idx_students_roll ON students (roll);
CREATE INDEX IF NOT EXISTS idx_students_status ON students (receipt_status);
CREATE INDEX IF NOT EXISTS idx_audit_student ON audit_log (student_id, created_at);
`

// EnsureSchema creates every table and index if absent. Each statement is
// CREATE ... IF NOT EXISTS, so applying the schema to an already
// initialized database is a no-op and never destructive. Pre-existing
// tables are never inspected or migrated: a same-named table is accepted
// as long as the indexed columns exist, and fails the whole operation
// when one is missing.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	if _, err := m.writer.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
