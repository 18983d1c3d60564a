// File: internal/platform/logger/zap.go
package logger

import (
	"strings"

	"pagination_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a LOG_LEVEL value to a zap level, defaulting to info.
func ParseLevel(raw string) zapcore.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// New initializes a new Zap logger based on the application configuration.
// GIN_MODE=release selects the production config; anything else gets the
// development config with colored levels.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.GinMode == "release" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.LogLevel))

	if strings.ToLower(cfg.LogFormat) == "json" {
		zapConfig.Encoding = "json"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	} else {
		zapConfig.Encoding = "console"
	}

	return zapConfig.Build()
}

// NewDefaultLogger is for tests or tooling that runs before config is loaded.
func NewDefaultLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}
