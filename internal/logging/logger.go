package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON logger on stdout as the process default.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

// NewJSONHandler is the stdout handler shared by Setup and the database fan-out.
func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
