package main

import (
	"io"

	"github.com/rs/zerolog"
)

var (
	BuildVersion string = "development"
)

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("version", BuildVersion).Logger()
}
