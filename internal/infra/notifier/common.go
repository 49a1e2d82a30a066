package notifier

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

const truncationSuffix = "..."

// Names used for registry keys, logs and metric labels.
const (
	NameLog     = "log"
	NameWebhook = "webhook"
	NameNoop    = "noop"
)

// truncateRunes shortens text to maxRunes runes, ending with suffix when
// anything was cut.
func truncateRunes(text string, maxRunes int, suffix string) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	keep := maxRunes - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}

	runes := []rune(text)
	return string(runes[:keep]) + suffix
}

// truncateBytes caps b at limit bytes without splitting a UTF-8 sequence.
func truncateBytes(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut])
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
