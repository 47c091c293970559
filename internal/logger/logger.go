package logger

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *slog.Logger

// Init initializes the process-wide logger. The daemon logs structured JSON to
// stderr so stdout stays free for protocol transports (the stdio transport owns
// stdout exclusively).
func Init(verbose bool) {
	InitWithWriter(os.Stderr, verbose)
}

// InitWithWriter initializes the logger against an explicit writer. Used by
// tests and by the stdio command, which must never write diagnostics to stdout.
// The context logger (see FromContext) shares the same writer and level, so
// command-scoped lines land in the same stream as daemon lines.
func InitWithWriter(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)

	zapLevel := zapcore.InfoLevel
	if verbose {
		zapLevel = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zapLevel)
	zap.ReplaceGlobals(zap.New(core))
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}
