package logger

import (
	"context"

	"go.uber.org/zap"
)

type key string

const (
	// KeyForLogger is used to store Logger in a context.Context
	KeyForLogger key = "logger"
	// KeyForRequestID is used to store the current request ID in a context.Context, optional
	KeyForRequestID key = "request_id"
)

// Logger wraps a *zap.Logger and is meant to travel inside context.Context
type Logger struct {
	l *zap.Logger
}

// NewLogger creates a new production Logger, might return an error because of zap
func NewLogger() (*Logger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Logger{l: zl}, nil
}

// New creates a new context.Context with a new logger placed in it
func New(ctx context.Context) (context.Context, error) {
	l, err := NewLogger()
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, KeyForLogger, l), nil
}

// GetLoggerFromCtx gets Logger from given ctx if present, else panics
func GetLoggerFromCtx(ctx context.Context) *Logger {
	return ctx.Value(KeyForLogger).(*Logger)
}

// GetOrCreateLoggerFromCtx is a safe version of GetLoggerFromCtx that builds
// a fresh logger when the context carries none
func GetOrCreateLoggerFromCtx(ctx context.Context) *Logger {
	if l, ok := ctx.Value(KeyForLogger).(*Logger); ok && l != nil {
		return l
	}
	l, _ := NewLogger()
	return l
}

// tryAppendRequestID appends the request_id field if the context carries one
// (check KeyForRequestID)
func tryAppendRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if v, ok := ctx.Value(KeyForRequestID).(string); ok && v != "" {
		fields = append(fields, zap.String(string(KeyForRequestID), v))
	}
	return fields
}

// Debug makes a debug level message
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, tryAppendRequestID(ctx, fields)...)
}

// Info makes an info level message
func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, tryAppendRequestID(ctx, fields)...)
}

// Warn makes a warn level message
func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, tryAppendRequestID(ctx, fields)...)
}

// Error makes an error level message
func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, tryAppendRequestID(ctx, fields)...)
}

// Fatal makes a fatal level message
func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, tryAppendRequestID(ctx, fields)...)
}
