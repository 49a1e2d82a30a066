package notifier

import (
	"context"
	"testing"
)

func TestNoOpNotifier_Notify(t *testing.T) {
	n := NewNoOpNotifier()

	if !n.Notify(context.Background(), "ignored", Details{KeyReportID: 1}) {
		t.Error("expected noop notifier to report success")
	}
	if n.Name() != NameNoop {
		t.Errorf("expected name=%q, got %q", NameNoop, n.Name())
	}
}

func TestDetails_Clone(t *testing.T) {
	orig := Details{KeyContentID: int64(7)}

	c := orig.Clone()
	c[KeyContentID] = int64(8)
	c[KeyReportID] = int64(1)

	if orig[KeyContentID] != int64(7) {
		t.Errorf("clone mutated original: %v", orig)
	}
	if _, ok := orig[KeyReportID]; ok {
		t.Error("clone added key to original")
	}
	if got := Details(nil).Clone(); got == nil {
		t.Error("expected non-nil clone of nil details")
	}
}

func TestDetails_String(t *testing.T) {
	d := Details{
		KeyContentID:    int64(42),
		KeyContentTitle: "Matrices",
		"empty":         nil,
	}

	tests := []struct {
		key  string
		want string
	}{
		{KeyContentID, "42"},
		{KeyContentTitle, "Matrices"},
		{"empty", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := d.String(tt.key); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii untouched", "abc", 5, "abc"},
		{"exact length untouched", "abcde", 5, "abcde"},
		{"ascii truncated", "abcdefgh", 5, "ab..."},
		{"multibyte counted as runes", "日本語テキスト", 5, "日本..."},
		{"max below suffix", "abcdef", 2, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.max, truncationSuffix); got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateBytes(t *testing.T) {
	if got := truncateBytes([]byte("héllo"), 2); got != "h" {
		t.Errorf("expected cut before multibyte rune, got %q", got)
	}
	if got := truncateBytes([]byte("ok"), 10); got != "ok" {
		t.Errorf("expected unchanged, got %q", got)
	}
}
