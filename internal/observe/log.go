package observe

import (
	"context"
	"log/slog"
)

// LogRecorder writes one slog record per call at Info level.
type LogRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder logs to logger, or to slog.Default() when logger is nil.
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Called implements Recorder.
func (r *LogRecorder) Called(ctx context.Context, function string, a, b int64) {
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"function", function, "a", a, "b", b}
	if token := RunToken(ctx); token != "" {
		attrs = append(attrs, "run", token)
	}
	logger.InfoContext(ctx, "call", attrs...)
}
