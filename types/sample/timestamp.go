package sample

import (
	"fmt"
	"regexp"
	"time"
)

// SourceLayout is the timestamp layout dashcams embed, fractional seconds excluded.
const SourceLayout = "2006:01:02 15:04:05"

// DisplayLayout is the canonical timestamp layout maps and animations use.
const DisplayLayout = "2006-01-02T15:04:05"

var sourceTimestampRe = regexp.MustCompile(`^(\d{4}:\d{2}:\d{2} \d{2}:\d{2}:\d{2})\.\d{1,6}Z$`)

// ParseTimestamp reads a "YYYY:MM:DD HH:MM:SS.ffffffZ" timestamp as UTC.
// Fractional seconds are truncated.
func ParseTimestamp(raw string) (time.Time, error) {
	m := sourceTimestampRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, raw)
	}
	t, err := time.Parse(SourceLayout, m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrFormat, raw, err)
	}
	return t, nil
}

// FormatTimestamp reformats a source timestamp into DisplayLayout,
// eg. "2024:11:08 12:38:33.900000Z" -> "2024-11-08T12:38:33".
func FormatTimestamp(raw string) (string, error) {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// SourceTimestamp renders t in the source timestamp form, with microseconds.
func SourceTimestamp(t time.Time) string {
	return t.UTC().Format("2006:01:02 15:04:05.000000") + "Z"
}

// Time parses the sample's timestamp.
func (s Sample) Time() (time.Time, error) {
	return ParseTimestamp(s.Timestamp)
}
