package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogLevel is the level used when none is configured.
const DefaultLogLevel = "info"

// NewApplicationLogger constructs a zap logger configured for human-readable console output on stderr.
func NewApplicationLogger(levelName string) (*zap.Logger, error) {
	level, levelError := ParseLogLevel(levelName)
	if levelError != nil {
		return nil, levelError
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// ParseLogLevel converts a level name such as "debug" or "warn" into a zap level.
// An empty name selects DefaultLogLevel.
func ParseLogLevel(levelName string) (zapcore.Level, error) {
	trimmedName := strings.TrimSpace(levelName)
	if trimmedName == "" {
		trimmedName = DefaultLogLevel
	}
	level, parseError := zapcore.ParseLevel(strings.ToLower(trimmedName))
	if parseError != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", levelName, parseError)
	}
	return level, nil
}

// LoggerOrNop returns logger, or a no-op logger when logger is nil.
func LoggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
