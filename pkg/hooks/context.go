package hooks

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Abdssamie/convex-shipfast/pkg/logger"
)

type dispatchIDKey struct{}

// WithDispatchID stores the id of an accepted hook event in ctx.
func WithDispatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dispatchIDKey{}, id)
}

// DispatchIDFromContext returns the dispatch id stored in ctx, or "".
func DispatchIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(dispatchIDKey{}).(string)
	return id
}

// DispatchIDExtractor adds the dispatch id to log records emitted while an
// accepted event is being sent.
func DispatchIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := DispatchIDFromContext(ctx); id != "" {
			return logger.DispatchID(id), true
		}
		return slog.Attr{}, false
	}
}

// RequestIDExtractor adds the chi request id to log records.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := middleware.GetReqID(ctx); id != "" {
			return logger.RequestID(id), true
		}
		return slog.Attr{}, false
	}
}
