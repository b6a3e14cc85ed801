package logging

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// New builds the process logger: JSON lines in every environment except
// development, which gets the human-readable console writer.
func New(w io.Writer, env, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
