package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire format for timestamp bounds and CSV output.
const TimestampLayout = "2006-01-02 15:04:05"

var acceptedLayouts = []string{
	TimestampLayout,
	"2006-01-02",
	time.RFC3339,
}

// ParseTimestamp parses a timestamp bound. Date-only values resolve to
// midnight UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp string")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}

// FormatTimestamp renders a timestamp the way the dataset files expect.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
