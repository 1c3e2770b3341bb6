// Package logging builds the file-backed logr.Logger used by the CLI. The
// terminal belongs to the TUI, so logs never go to stdout or stderr.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelInfo  = "info"
	LevelDebug = "debug"
)

// New returns a JSON logger appending to path and a sync func to flush it
// on exit. At the debug level V(1) messages are written too.
func New(path, level string) (logr.Logger, func() error, error) {
	zapLevel, err := parseLevel(level)
	if err != nil {
		return logr.Discard(), nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	zapLog, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("build logger for %s: %w", path, err)
	}
	return zapr.NewLogger(zapLog), zapLog.Sync, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", LevelInfo:
		return zapcore.InfoLevel, nil
	case LevelDebug:
		return zapcore.DebugLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
