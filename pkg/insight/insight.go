// pkg/insight/insight.go

// Package insight defines the schemaless AI-Ops insight record. Templates
// carry arbitrary fields the platform understands; everything this tool
// does not actively mutate must round-trip unchanged, so the record stays
// a plain map with typed accessors for the handful of fields we touch.
package insight

import (
	"time"
)

// Severity levels accepted by the insights API.
const (
	SeverityCritical      = "CRITICAL"
	SeverityWarning       = "WARNING"
	SeverityInformational = "INFORMATIONAL"
)

// Severities lists every level, in the order used for uniform draws.
var Severities = []string{SeverityCritical, SeverityWarning, SeverityInformational}

// StatusResolved marks a past insight as closed out.
const StatusResolved = "RESOLVED"

// Record is a single insight document.
type Record map[string]any

// UID returns the record's unique identifier, or "Unknown" when absent.
func (r Record) UID() string {
	return r.stringField("uid")
}

// Title returns the record's display title, or "Unknown" when absent.
func (r Record) Title() string {
	return r.stringField("title")
}

func (r Record) stringField(key string) string {
	if v, ok := r[key].(string); ok && v != "" {
		return v
	}
	return "Unknown"
}

// Clone deep-copies the record so mutation never touches the loaded
// template. Only the JSON value kinds (maps, slices, scalars) are handled;
// that is all a decoded template can contain.
func (r Record) Clone() Record {
	return cloneValue(map[string]any(r)).(map[string]any)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

// FormatTimestamp renders a time the way the insights API expects:
// millisecond precision with a literal +00:00 UTC offset.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "+00:00"
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000-07:00", s)
}
