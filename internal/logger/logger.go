package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string
	// Pretty enables human-readable console output instead of JSON lines.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Location is used for the ts field. Defaults to UTC.
	Location *time.Location
}

// Configure sets the process-wide zerolog logger.
// Every entry carries a "ts" field formatted as RFC3339Nano in the configured location.
func Configure(cfg Config) zerolog.Logger {
	l := New(cfg)
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	log.Logger = l
	// zerolog.Ctx falls back to this logger for contexts without one attached.
	zerolog.DefaultContextLogger = &l
	return l
}

// New builds a logger without touching global state.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Hook(tsHook{loc: loc}).Level(parseLevel(cfg.Level))
}

type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("ts", time.Now().In(h.loc).Format(time.RFC3339Nano))
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
