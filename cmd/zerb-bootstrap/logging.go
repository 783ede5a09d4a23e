package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog logger rendered by charmbracelet/log on w.
// ZERB_DEBUG enables debug output.
func newLogger(w io.Writer) *slog.Logger {
	level := log.InfoLevel
	if os.Getenv("ZERB_DEBUG") != "" {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix: "zerb-bootstrap",
		Level:  level,
	})
	return slog.New(handler)
}
