// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger for env writing to stdout.
func New(env string) *slog.Logger {
	return NewWriter(env, os.Stdout)
}

// NewWriter returns a logger for env: JSON at info in production, JSON at
// debug in staging, human-readable text at debug otherwise.
func NewWriter(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod", "production":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
