package resources

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogger builds the process logger from cfg and installs it as log.Logger and as
// the default context logger.
// An unknown level falls back to info.
func ConfigureLogger(cfg LogConfig, out io.Writer, name string, version string) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", name).
		Str("version", version).
		Logger()

	log.Logger = logger
	// log.Ctx falls back to this logger for contexts that carry none
	zerolog.DefaultContextLogger = &log.Logger

	return logger
}
