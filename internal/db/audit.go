package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type auditEntry struct {
	StudentID int64
	Action    string
	OldStatus string
	NewStatus string
}

type AuditRow struct {
	EntryID     string
	StudentID   int64
	Action      string
	OldStatus   string
	NewStatus   string
	PerformedBy string
	CreatedAt   int64
}

func insertAudit(ctx context.Context, tx *sql.Tx, e auditEntry) error {
	var oldStatus any
	if e.OldStatus != "" {
		oldStatus = e.OldStatus
	}
	_, err := tx.ExecContext(ctx, `
INSERT INTO audit_log (entry_id, student_id, action, old_status, new_status, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, uuid.NewString(), e.StudentID, e.Action, oldStatus, e.NewStatus, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// AuditTrail returns a student's audit rows oldest first.
func (m *Manager) AuditTrail(ctx context.Context, studentID int64) ([]AuditRow, error) {
	rows, err := m.reader.QueryContext(ctx, `
SELECT entry_id, student_id, action, COALESCE(old_status,''), new_status, performed_by, created_at
FROM audit_log
WHERE student_id = ?
ORDER BY id ASC
`, studentID)
	if err != nil {
		if isMissingTable(err) {
			return nil, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var out []AuditRow
	for rows.Next() {
		var row AuditRow
		if err := rows.Scan(
			&row.EntryID,
			&row.StudentID,
			&row.Action,
			&row.OldStatus,
			&row.NewStatus,
			&row.PerformedBy,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return out, nil
}
