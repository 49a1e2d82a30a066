package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
}

// splitRecords returns the JSON body of every record in a log file.
func splitRecords(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, chunk := range strings.Split(raw, logSeparator+"\n\n") {
		if chunk == "" {
			continue
		}
		idx := strings.Index(chunk, "Details: ")
		require.GreaterOrEqual(t, idx, 0, "record without details: %q", chunk)
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(chunk[idx+len("Details: "):]), &m))
		out = append(out, m)
	}
	return out
}

func TestLogNotifier_Notify_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.log")
	n := NewLogNotifier(path, WithLogClock(fixedClock))

	details := Details{
		KeyReporterName:   "Zoë",
		KeyContentTitle:   "線形代数 <notes> & more",
		KeyContentID:      int64(42),
		KeyReasonCategory: "spam",
	}

	ok := n.Notify(context.Background(), "New content report", details)
	require.True(t, ok)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(raw)

	assert.True(t, strings.HasPrefix(s, "[2026-10-14 09:30:00] New content report\nDetails: {\n"), s)
	assert.True(t, strings.HasSuffix(s, "\n"+logSeparator+"\n\n"), s)
	assert.Contains(t, s, `"content_title": "線形代数 <notes> & more"`, "non-ASCII and HTML must be written verbatim")
	assert.Contains(t, s, `  "reporter_name": "Zoë"`)

	records := splitRecords(t, s)
	require.Len(t, records, 1)
	assert.Equal(t, "線形代数 <notes> & more", records[0][KeyContentTitle])
	assert.Equal(t, float64(42), records[0][KeyContentID])
	assert.Equal(t, "spam", records[0][KeyReasonCategory])
}

func TestLogNotifier_Notify_AppendsAndSetsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.log")
	n := NewLogNotifier(path, WithLogClock(fixedClock))

	require.True(t, n.Notify(context.Background(), "first", Details{KeyReportID: int64(1)}))
	require.True(t, n.Notify(context.Background(), "second", Details{KeyReportID: int64(2)}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records := splitRecords(t, string(raw))
	require.Len(t, records, 2)
	assert.Equal(t, float64(1), records[0][KeyReportID])
	assert.Equal(t, float64(2), records[1][KeyReportID])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestLogNotifier_Notify_NilDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.log")
	n := NewLogNotifier(path, WithLogClock(fixedClock))

	require.True(t, n.Notify(context.Background(), "bare", nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Details: {}\n")
}

func TestLogNotifier_Notify_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.log")
	n := NewLogNotifier(path)

	const writers = 25
	var wg sync.WaitGroup
	results := make([]bool, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = n.Notify(context.Background(), "concurrent", Details{
				KeyReportID:      int64(i),
				KeyReasonDetails: strings.Repeat("x", 2000),
			})
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "writer %d failed", i)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records := splitRecords(t, string(raw))
	require.Len(t, records, writers)

	seen := make(map[float64]bool)
	for _, r := range records {
		seen[r[KeyReportID].(float64)] = true
	}
	assert.Len(t, seen, writers, "every record must be intact and distinct")
}

func TestLogNotifier_Notify_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	path := filepath.Join(blocker, "reports.log")
	n := NewLogNotifier(path, WithLogLogger(logger))

	ok := n.Notify(context.Background(), "will fail", Details{})

	assert.False(t, ok)
	assert.Contains(t, buf.String(), "failed to write notification record")
	assert.Contains(t, buf.String(), `"path":"`+path+`"`)
}

func TestLogNotifier_Notify_UnencodableDetails(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(filepath.Join(t.TempDir(), "reports.log"),
		WithLogLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	ok := n.Notify(context.Background(), "bad", Details{"ch": make(chan int)})

	assert.False(t, ok)
	assert.Contains(t, buf.String(), "failed to encode notification record")
}
