package telemetry

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	JSON  bool
	Debug bool
}

// New builds a zap logger writing to stdout.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}
	encoding := "console"
	if opts.JSON {
		encoding = "json"
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "msg",
			LevelKey:      "level",
			EncodeLevel:   zapcore.LowercaseLevelEncoder,
			TimeKey:       "ts",
			EncodeTime:    zapcore.RFC3339TimeEncoder,
			CallerKey:     "caller",
			EncodeCaller:  zapcore.ShortCallerEncoder,
			StacktraceKey: "stack",
		},
	}
	return cfg.Build()
}

// Init builds a logger and installs it as the process-wide zap logger.
func Init(opts Options) (*zap.Logger, error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return zap.L()
}

// Info writes an info-level entry on the global logger.
func Info(msg string, fields ...zap.Field) {
	zap.L().Info(msg, fields...)
}

// Error writes an error-level entry on the global logger.
func Error(msg string, fields ...zap.Field) {
	zap.L().Error(msg, fields...)
}

// Debug writes a debug-level entry on the global logger.
func Debug(msg string, fields ...zap.Field) {
	zap.L().Debug(msg, fields...)
}

// OrNop returns logger, or a no-op logger when nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Truncate shortens s to limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
