package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. --debug lowers the level to
// debug, --quiet raises it to error.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case c.Debug:
		level = slog.LevelDebug
	case c.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
