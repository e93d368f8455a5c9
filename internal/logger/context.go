package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Field keys shared by the request logger.
const (
	FieldRequestID = "request_id"
	FieldOwnerID   = "owner_id"
	FieldRole      = "role"
)

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ForRequest derives the per-request logger from base and stores it in ctx.
func ForRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base
	if requestID != "" {
		l = base.With(zap.String(FieldRequestID, requestID))
	}
	return ContextWithLogger(ctx, l), l
}

// WithCaller tags the stored logger with the authenticated owner.
// Without a stored logger ctx is returned unchanged.
func WithCaller(ctx context.Context, ownerID, role string) context.Context {
	l, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	if !ok {
		return ctx
	}
	return ContextWithLogger(ctx, l.With(zap.String(FieldOwnerID, ownerID), zap.String(FieldRole, role)))
}
