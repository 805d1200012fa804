// Package export writes student submissions to timestamped CSV files for
// offline analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/campusops/feetrack/internal/db"
)

var header = []string{
	"ID", "Name", "Roll Number", "Department", "Fee Amount",
	"Receipt Path", "Status", "Submitted At", "Updated At", "Notes",
}

// WriteCSV writes students to dir/students_export_<YYYYMMDD_HHMMSS>.csv
// and returns the path written.
func WriteCSV(dir string, students []db.StudentRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, "students_export_"+time.Now().Format("20060102_150405")+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write export header: %w", err)
	}
	for _, s := range students {
		record := []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			s.Roll,
			s.Department,
			strconv.FormatFloat(s.FeeAmount, 'f', 2, 64),
			s.ReceiptPath,
			s.ReceiptStatus,
			formatMillis(s.SubmittedAt),
			formatMillis(s.UpdatedAt),
			s.Notes,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write export row %d: %w", s.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}
