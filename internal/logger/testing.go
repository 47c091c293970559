package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger creates a logger that captures logs for assertions
func TestLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)
	return l, logs
}

// TestContext creates a context with a test logger and returns the observed
// logs for assertions.
func TestContext() (context.Context, *observer.ObservedLogs) {
	l, logs := TestLogger()
	ctx := ContextWithLogger(context.Background(), l)
	return ctx, logs
}

// NopContext creates a context with a no-op logger
func NopContext() context.Context {
	return ContextWithLogger(context.Background(), zap.NewNop())
}
