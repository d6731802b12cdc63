package provider

import (
	"strings"
	"time"
)

// datetimeLayouts covers the timestamp shapes the upstreams actually emit:
// full RFC3339 with offset, offset without colon, bare timestamps with and
// without a T separator, and plain dates.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime parses an upstream timestamp defensively. Returns nil for
// empty or malformed input — a bad date from one provider must not block
// persistence of the rest of the record.
func ParseDateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.Local()
			return &t
		}
	}
	return nil
}
