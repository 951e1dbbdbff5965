package log

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
}

// Config controls the logger built by New. The zero Level is
// zerolog.DebugLevel; use ParseLevel to get info as the default.
type Config struct {
	Level   zerolog.Level
	Out     io.Writer
	NoColor bool
}

// New builds a zerolog logger. Inside Kubernetes it writes JSON lines to
// stderr, elsewhere a console format to cfg.Out.
func New(cfg Config) *zerolog.Logger {
	var output io.Writer
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		output = os.Stderr
		if cfg.Out != nil {
			output = cfg.Out
		}
	} else {
		out := cfg.Out
		if out == nil {
			out = os.Stdout
		}
		output = zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	logger := zerolog.New(output).Level(cfg.Level).With().Timestamp().Logger()
	return &logger
}

// Logr bridges l to logr. logr verbosity V(1) maps to zerolog's debug level.
func Logr(l *zerolog.Logger, name string) logr.Logger {
	return zerologr.New(l).WithName(name)
}

// ParseLevel parses a zerolog level name; the empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}
