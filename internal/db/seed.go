package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedStudent is one row of the sample record set.
type SeedStudent struct {
	Name          string  `yaml:"name"`
	Roll          string  `yaml:"roll"`
	Department    string  `yaml:"department"`
	FeeAmount     float64 `yaml:"fee_amount"`
	ReceiptStatus string  `yaml:"receipt_status"`
}

type seedFile struct {
	Students []SeedStudent `yaml:"students"`
}

// SampleStudents parses the embedded sample record set.
func SampleStudents() ([]SeedStudent, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse embedded seed data: %w", err)
	}
	if len(f.Students) == 0 {
		return nil, fmt.Errorf("embedded seed data contains no students")
	}
	return f.Students, nil
}

// SeedSampleData inserts the sample record set inside a single
// transaction. A database that already holds student rows is left alone
// and reported as seeded=false. If any insert fails the transaction is
// rolled back and no row from this attempt survives. Running against a
// database whose schema was never created is a caller bug, reported as
// ErrSchemaMissing.
func (m *Manager) SeedSampleData(ctx context.Context) (seeded bool, err error) {
	students, err := SampleStudents()
	if err != nil {
		return false, err
	}

	tx, err := m.writer.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The emptiness guard runs inside the transaction so the check and
	// the inserts see the same state.
	var count int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		if isMissingTable(err) {
			return false, fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		}
		return false, fmt.Errorf("count students: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO students (name, roll, department, fee_amount, receipt_path, receipt_status, submitted_at)
VALUES (?, ?, ?, ?, '', ?, ?)
`)
	if err != nil {
		return false, fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, s := range students {
		if _, err := stmt.ExecContext(ctx, s.Name, s.Roll, s.Department, s.FeeAmount, s.ReceiptStatus, now); err != nil {
			if isConstraintViolation(err) {
				return false, fmt.Errorf("%w: roll %s: %v", ErrSeedIntegrity, s.Roll, err)
			}
			return false, fmt.Errorf("insert sample student %s: %w", s.Roll, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed tx: %w", err)
	}
	return true, nil
}
