// Package logging provides the shared loggers used across the module.
package logging

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// NewConfig returns the default logger config: human readable console
// output with colored levels and no stacktraces.
func NewConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// Default returns the process-wide logger, created on first use.
func Default() *zap.SugaredLogger {
	defaultOnce.Do(func() {
		defaultLogger = NewLogger("inputhub")
	})
	return defaultLogger
}

var (
	defaultOnce   sync.Once
	defaultLogger *zap.SugaredLogger
)

// NewLogger returns a named logger that writes Info and above to stdout.
func NewLogger(name string) *zap.SugaredLogger {
	return zap.Must(NewConfig().Build()).Named(name).Sugar()
}

// NewDebugLogger returns a named logger that writes Debug and above to
// stdout.
func NewDebugLogger(name string) *zap.SugaredLogger {
	cfg := NewConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return zap.Must(cfg.Build()).Named(name).Sugar()
}

// NewTestLogger returns a logger that writes through the test harness, so
// output only shows for failing tests or with -v.
func NewTestLogger(tb testing.TB) *zap.SugaredLogger {
	return zaptest.NewLogger(tb).Sugar()
}
