// Package oplog writes the persistent operation log: one timestamped,
// leveled line per recorded outcome. Consumers grep and tail this file,
// so the line shape is a compatibility contract.
package oplog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// normalize maps unrecognized levels to ERROR so a bad caller never
// crashes the primary operation over a log line.
func normalize(level Level) Level {
	switch level {
	case LevelInfo, LevelWarning, LevelError:
		return level
	default:
		return LevelError
	}
}

// Sink appends operation log entries to a single destination. It assumes
// one writer per process; callers needing concurrent runs must serialize
// outside this package.
type Sink struct {
	w      io.Writer
	closer io.Closer
	now    func() time.Time
}

// New returns a Sink over an arbitrary writer. Tests use this with a
// bytes.Buffer.
func New(w io.Writer) *Sink {
	return &Sink{w: w, now: time.Now}
}

// Open opens (creating if needed) the log file at path in append mode.
func Open(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open operation log: %w", err)
	}
	return &Sink{w: f, closer: f, now: time.Now}, nil
}

// Record appends exactly one line in the form
//
//	YYYY-MM-DD HH:MM:SS,mmm - LEVEL - message
//
// Entries appear in the order Record was invoked. A write failure is
// returned to the caller; losing a log entry silently would defeat the
// log's purpose.
func (s *Sink) Record(level Level, message string) error {
	line := formatLine(s.now(), normalize(level), message)
	if _, err := io.WriteString(s.w, line); err != nil {
		return fmt.Errorf("write operation log entry: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func formatLine(t time.Time, level Level, message string) string {
	// Go time layouts cannot render a comma decimal separator, so the
	// millisecond field is appended by hand.
	return fmt.Sprintf("%s,%03d - %s - %s\n",
		t.Format("2006-01-02 15:04:05"),
		t.Nanosecond()/int(time.Millisecond),
		level,
		message,
	)
}
