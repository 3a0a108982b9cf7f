package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// Log is the process-wide logger. Packages read it at call time so a
	// later SetLevel or SetJSON takes effect everywhere.
	Log *slog.Logger

	out io.Writer = os.Stderr
)

func init() {
	Log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// SetOutput redirects log output and resets the level to info. The terminal
// UI owns stdout, so logs go to stderr unless told otherwise.
func SetOutput(w io.Writer) {
	out = w
	SetLevel(slog.LevelInfo)
}

// SetLevel changes the logging level
func SetLevel(level slog.Level) {
	Log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetJSONWithLevel switches to JSON output with custom level
func SetJSONWithLevel(level slog.Level) {
	Log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

// ParseLevel maps debug/info/warn/error to a slog level. Unknown values
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Configure applies a level name and a format ("text" or "json").
func Configure(level, format string) {
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "json") {
		SetJSONWithLevel(lvl)
		return
	}
	SetLevel(lvl)
}
