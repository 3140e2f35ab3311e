// Package scrivener reads and writes Scrivener project bundles: the
// .scrivx manifest, the per-item RTF/synopsis files of both on-disk
// layouts, and the import/export pipelines that convert between bundles
// and the native manuscript tree.
package scrivener

import "time"

// manifestDateFormat is what the writer emits; it is also the first
// format the parser tries.
const manifestDateFormat = time.RFC3339

// dateFormats is the parse fallback chain, most common first. Legacy
// manifests carry space-separated timestamps with or without a zone.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z0700",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
}

// parseDate tries each known format in order. A string no format accepts
// yields ok false, never an error: a garbled date must not abort an
// import.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders a manifest timestamp. The zero time renders empty
// so the writer can omit the attribute entirely.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(manifestDateFormat)
}
