// Package requestctx carries per-request values shared by middleware and
// handlers: the scoped logger and the active trace.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type (
	loggerKey struct{}
	traceKey  struct{}
)

var nop = zap.NewNop()

// TraceInfo identifies the server span of the current request.
type TraceInfo struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// NoopLogger is returned when no logger was stored.
func NoopLogger() *zap.Logger { return nop }

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = nop
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the request logger, never nil.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return nop
	}
	l, _ := ctx.Value(loggerKey{}).(*zap.Logger)
	if l == nil {
		return nop
	}
	return l
}

// With scopes the request logger with extra fields, e.g. the visitor session
// once it is known.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return WithLogger(ctx, Logger(ctx).With(fields...))
}

func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceKey{}, info)
}

// Trace reports the trace stored by the tracing middleware.
func Trace(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceKey{}).(TraceInfo)
	return info, ok
}
