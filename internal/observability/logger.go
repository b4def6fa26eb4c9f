package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// NewLogger creates a new structured logger based on configuration.
// Format "json" (default) uses the production encoder, "console" or "text" the
// development one.
func NewLogger(config LoggingConfig) *zap.Logger {
	var output zapcore.WriteSyncer
	switch strings.ToLower(config.Output) {
	case "stdout":
		output = zapcore.Lock(os.Stdout)
	default:
		output = zapcore.Lock(os.Stderr)
	}
	return newLogger(config, output)
}

func newLogger(config LoggingConfig, output zapcore.WriteSyncer) *zap.Logger {
	var encoder zapcore.Encoder
	switch strings.ToLower(config.Format) {
	case "console", "text":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, output, parseLogLevel(config.Level))
	return zap.New(core)
}

// parseLogLevel parses the log level string
func parseLogLevel(level string) zap.AtomicLevel {
	switch strings.ToLower(level) {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn", "warning":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
