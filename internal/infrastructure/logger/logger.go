package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as the zerolog global.
// dev gets a human console writer, every other env JSON on stdout.
// Unknown levels fall back to info.
func New(level, env string) zerolog.Logger {
	return newWith(os.Stdout, level, env)
}

func newWith(w io.Writer, level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env == "dev" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "groupware-approval").Logger()
	log.Logger = l
	return l
}
