package common

import (
	"log/slog"
	"strings"
)

// SlogResetLevel returns a function that resets the slog level to the previous level,
// pairs well with defer.
// Use like:
// func Test123(t *testing.T) {
//     defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}

// SlogLevel parses a verbosity name into a slog.Level.
// Unknown names fall back to Info.
func SlogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "crit":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
