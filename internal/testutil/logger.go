package testutil

import (
	"io"

	"github.com/dtroode/glowbook-server/internal/logger"
)

// MakeNoopLogger returns a logger that drops everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, "text")
}

// MakeLogger returns a text logger writing to w.
func MakeLogger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(w, 0, "text")
}
