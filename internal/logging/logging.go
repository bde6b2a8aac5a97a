// Package logging provides structured logging for the reelscope service.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// keyValuePairSize is the number of elements in a key-value pair.
const keyValuePairSize = 2

// Logger is the logging interface used across the service.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
	Sync() error
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error).
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Development disables sampling so every log line is visible.
	Development bool `yaml:"development"`
}

type zapLogger struct {
	log *zap.Logger
}

// New creates a zap-backed Logger. Output is always JSON with ISO8601
// timestamps so log aggregation stays consistent across environments.
func New(cfg Config) (Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	if cfg.Development {
		zapCfg.Sampling = nil
	}

	z, err := zapCfg.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &zapLogger{log: z}, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
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

func (l *zapLogger) Debug(msg string, keysAndValues ...any) {
	l.log.Debug(msg, toFields(keysAndValues)...)
}

func (l *zapLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, toFields(keysAndValues)...)
}

func (l *zapLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Warn(msg, toFields(keysAndValues)...)
}

func (l *zapLogger) Error(msg string, keysAndValues ...any) {
	l.log.Error(msg, toFields(keysAndValues)...)
}

func (l *zapLogger) With(keysAndValues ...any) Logger {
	return &zapLogger{log: l.log.With(toFields(keysAndValues)...)}
}

func (l *zapLogger) Sync() error {
	return l.log.Sync()
}

// toFields converts loosely-typed key-value pairs to zap fields. Pairs with
// a non-string key and trailing unpaired values are dropped.
func toFields(keysAndValues []any) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/keyValuePairSize)
	for i := 0; i+1 < len(keysAndValues); i += keyValuePairSize {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

// Nop returns a Logger that discards everything. Intended for tests.
func Nop() Logger {
	return &zapLogger{log: zap.NewNop()}
}
