package http

import (
	"context"
	"log/slog"
)

// defaultLogger guards handler construction against a nil logger so the
// handlers never have to nil-check before logging.
func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger builds the per-request logger for one handler operation. The
// request-scoped logger installed by RequestLogger wins over the handler's
// own logger so the request id attribute carries through; extra attrs are
// appended pairwise, slog style.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	logger = logger.With("handler", handlerName)
	if operation != "" {
		logger = logger.With("operation", operation)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}
