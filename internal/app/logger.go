package app

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// LogLevelEnv selects the log level: debug, info, warn or error.
const LogLevelEnv = "IMAGEVIEW_LOG"

// NewLogger returns a console logger writing to w at the given level.
// Colour is used only when w is a terminal.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// LoggerFromEnv returns a stderr console logger with the level taken from
// IMAGEVIEW_LOG, defaulting to info.
func LoggerFromEnv() zerolog.Logger {
	return NewLogger(os.Stderr, ParseLevel(os.Getenv(LogLevelEnv)))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
