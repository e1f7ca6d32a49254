// Package logging builds the structured logger shared by every component.
//
// Components accept a *slog.Logger through their WithLogger options; the
// logger returned here writes JSON lines through a zap production core so
// CloudWatch receives one structured record per event.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a level name into a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a JSON logger writing to stdout at the given level.
// The returned sync function flushes buffered entries and should be deferred.
func New(level string, component string) (*slog.Logger, func()) {
	return NewWithWriter(os.Stdout, level, component)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, component string) (*slog.Logger, func()) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)

	logger := slog.New(zapslog.NewHandler(core)).With(
		"component", component,
		"service", "hava-org-sync",
	)

	return logger, func() { _ = core.Sync() }
}

// Discard returns a logger that drops every record. Used as the default when
// callers do not provide one.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
