package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a centralized structured logger. Every call is tagged with the
// emitting module so log lines stay attributable after aggregation.
type Logger struct {
	z *zap.Logger
}

// New creates a JSON logger writing to stdout.
func New() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		// The production config only fails on an invalid output path; stdout is valid.
		panic(err)
	}
	return &Logger{z: z}
}

func (l *Logger) Info(module, msg string) {
	l.z.Info(msg, zap.String("module", module))
}

func (l *Logger) Debug(module, msg string) {
	l.z.Debug(msg, zap.String("module", module))
}

func (l *Logger) Error(module, msg string, err error) {
	l.z.Error(msg, zap.String("module", module), zap.Error(err))
}
