package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Receipt statuses a submission moves through.
const (
	StatusPending  = "Pending"
	StatusVerified = "Verified"
	StatusRejected = "Rejected"
)

type StudentInsert struct {
	Name        string
	Roll        string
	Department  string
	FeeAmount   float64
	ReceiptPath string
}

type StudentRow struct {
	ID            int64
	Name          string
	Roll          string
	Department    string
	FeeAmount     float64
	ReceiptPath   string
	ReceiptStatus string
	SubmittedAt   int64
	UpdatedAt     int64
	Notes         string
}

type Statistics struct {
	Total            int64
	Pending          int64
	Verified         int64
	Rejected         int64
	TotalVerifiedFee float64
}

const studentColumns = `
id, name, roll, department, fee_amount, COALESCE(receipt_path,''),
receipt_status, submitted_at, COALESCE(updated_at,0), COALESCE(notes,'')
`

// InsertStudent adds a submission with status Pending and writes the
// "Student Created" audit row in the same transaction.
func (m *Manager) InsertStudent(ctx context.Context, in StudentInsert) (int64, error) {
	tx, err := m.writer.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UnixMilli()
	res, err := tx.ExecContext(ctx, `
INSERT INTO students (name, roll, department, fee_amount, receipt_path, receipt_status, submitted_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, in.Name, in.Roll, in.Department, in.FeeAmount, in.ReceiptPath, StatusPending, now)
	if err != nil {
		if isMissingTable(err) {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
		if isConstraintViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateRoll, in.Roll)
		}
		return 0, fmt.Errorf("insert student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("student id: %w", err)
	}

	if err := insertAudit(ctx, tx, auditEntry{
		StudentID: id,
		Action:    "Student Created",
		NewStatus: StatusPending,
	}); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert tx: %w", err)
	}
	return id, nil
}

func (m *Manager) StudentByID(ctx context.Context, id int64) (StudentRow, error) {
	row, err := scanStudent(m.reader.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return StudentRow{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return row, err
}

func (m *Manager) AllStudents(ctx context.Context) ([]StudentRow, error) {
	return m.queryStudents(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY id DESC")
}

// SearchStudents matches the term against name and roll.
func (m *Manager) SearchStudents(ctx context.Context, term string) ([]StudentRow, error) {
	pattern := "%" + term + "%"
	return m.queryStudents(ctx,
		"SELECT "+studentColumns+" FROM students WHERE name LIKE ? OR roll LIKE ? ORDER BY id DESC",
		pattern, pattern)
}

// UpdateReceiptStatus moves a submission to newStatus, optionally
// attaching notes, and writes the "Status Updated" audit row in the same
// transaction.
func (m *Manager) UpdateReceiptStatus(ctx context.Context, id int64, newStatus, notes string) error {
	tx, err := m.writer.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var oldStatus string
	err = tx.QueryRowContext(ctx, "SELECT receipt_status FROM students WHERE id = ?", id).Scan(&oldStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("load current status: %w", err)
	}

	now := time.Now().UnixMilli()
	if notes != "" {
		_, err = tx.ExecContext(ctx,
			"UPDATE students SET receipt_status = ?, updated_at = ?, notes = ? WHERE id = ?",
			newStatus, now, notes, id)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE students SET receipt_status = ?, updated_at = ? WHERE id = ?",
			newStatus, now, id)
	}
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if err := insertAudit(ctx, tx, auditEntry{
		StudentID: id,
		Action:    "Status Updated",
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update tx: %w", err)
	}
	return nil
}

func (m *Manager) StudentCount(ctx context.Context) (int64, error) {
	var out int64
	if err := m.reader.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&out); err != nil {
		if isMissingTable(err) {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
		return 0, err
	}
	return out, nil
}

func (m *Manager) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	err := m.reader.QueryRowContext(ctx, `
SELECT
  (SELECT COUNT(*) FROM students),
  (SELECT COUNT(*) FROM students WHERE receipt_status = ?),
  (SELECT COUNT(*) FROM students WHERE receipt_status = ?),
  (SELECT COUNT(*) FROM students WHERE receipt_status = ?),
  (SELECT COALESCE(SUM(fee_amount), 0) FROM students WHERE receipt_status = ?)
`, StatusPending, StatusVerified, StatusRejected, StatusVerified).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Verified,
		&stats.Rejected,
		&stats.TotalVerifiedFee,
	)
	if err != nil {
		if isMissingTable(err) {
			return Statistics{}, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
		return Statistics{}, fmt.Errorf("query statistics: %w", err)
	}
	return stats, nil
}

func (m *Manager) queryStudents(ctx context.Context, query string, args ...any) ([]StudentRow, error) {
	rows, err := m.reader.QueryContext(ctx, query, args...)
	if err != nil {
		if isMissingTable(err) {
			return nil, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []StudentRow
	for rows.Next() {
		row, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(s rowScanner) (StudentRow, error) {
	var row StudentRow
	err := s.Scan(
		&row.ID,
		&row.Name,
		&row.Roll,
		&row.Department,
		&row.FeeAmount,
		&row.ReceiptPath,
		&row.ReceiptStatus,
		&row.SubmittedAt,
		&row.UpdatedAt,
		&row.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StudentRow{}, err
		}
		return StudentRow{}, fmt.Errorf("scan student: %w", err)
	}
	return row, nil
}
