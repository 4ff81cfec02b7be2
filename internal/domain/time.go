package domain

import (
	"strings"
	"time"
)

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseWhen parses the timestamp forms upstream sources actually send.
// Layouts without a zone are read as UTC. ok is false for anything else.
func ParseWhen(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range whenLayouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SubmittedTime parses the review's submission timestamp; ok is false when
// the value is missing or unparsable (such reviews sort as epoch 0).
func (r Review) SubmittedTime() (time.Time, bool) {
	return ParseWhen(r.SubmittedAt)
}
