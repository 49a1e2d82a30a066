package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

const (
	logTimeLayout = "2006-01-02 15:04:05"
	logFileMode   = 0o640
	logDirMode    = 0o750
)

var logSeparator = strings.Repeat("-", 80)

// LogNotifier appends one human-readable record per notification to a local
// file. Concurrent writers in this or other processes are serialized with an
// exclusive flock held for the single write of each record.
type LogNotifier struct {
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// LogOption configures a LogNotifier.
type LogOption func(*LogNotifier)

// WithLogClock overrides the clock used for record timestamps.
func WithLogClock(now func() time.Time) LogOption {
	return func(n *LogNotifier) { n.now = now }
}

// WithLogLogger sets the logger used for write failures.
func WithLogLogger(l *slog.Logger) LogOption {
	return func(n *LogNotifier) { n.logger = l }
}

// NewLogNotifier returns a notifier that appends to path.
func NewLogNotifier(path string, opts ...LogOption) *LogNotifier {
	n := &LogNotifier{
		path:   path,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *LogNotifier) Name() string { return NameLog }

// Path returns the file records are appended to.
func (n *LogNotifier) Path() string { return n.path }

// Notify writes the record and reports whether the append succeeded.
func (n *LogNotifier) Notify(ctx context.Context, message string, details Details) bool {
	record, err := n.formatRecord(message, details)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to encode notification record",
			slog.String("path", n.path),
			slog.Any("error", err))
		return false
	}

	if err := n.appendRecord(record); err != nil {
		n.logger.ErrorContext(ctx, "failed to write notification record",
			slog.String("path", n.path),
			slog.Any("error", err))
		return false
	}
	return true
}

// formatRecord renders:
//
//	[2026-10-14 09:30:00] message
//	Details: {
//	  "key": "value"
//	}
//	--------...--------
//	(blank line)
func (n *LogNotifier) formatRecord(message string, details Details) ([]byte, error) {
	if details == nil {
		details = Details{}
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(details); err != nil {
		return nil, fmt.Errorf("encode details: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s] %s\n", n.now().Format(logTimeLayout), message)
	buf.WriteString("Details: ")
	buf.Write(body.Bytes()) // Encode terminates with '\n'
	buf.WriteString(logSeparator)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

func (n *LogNotifier) appendRecord(record []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(n.path), logDirMode); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(n.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
	}()

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock log file: %w", err)
	}
	defer func() { _ = unix.Flock(fd, unix.LOCK_UN) }()

	if _, err := f.Write(record); err != nil {
		return fmt.Errorf("write log file: %w", err)
	}
	return nil
}
