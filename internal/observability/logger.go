package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger writes JSON to stdout. Every record carries service and env, and trace/request ids
// when the context has them.
func NewLogger(service, env string) *slog.Logger {
	return NewLoggerTo(os.Stdout, service, env)
}

func NewLoggerTo(w io.Writer, service, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(NewTraceHandler(slog.NewJSONHandler(w, opts))).
		With(slog.String("service", service), slog.String("env", env))
}
