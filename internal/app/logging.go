package app

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger writing to w. Unknown levels
// fall back to info.
func NewLogger(opts Options, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if opts.LogFormat != LogFormatJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "imagetoolkit").
		Logger()
}

// withComponent returns a child logger annotated with the component name.
func withComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
