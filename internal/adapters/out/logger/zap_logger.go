package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
)

// ZapLogger - структурный JSON-лог для не-локальных окружений.
type ZapLogger struct {
	base          *zap.Logger
	defaultFields out.LogFields
	module        string
}

func NewZapLogger(version string) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.Fields(zap.String("version", version)))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{
		base:          base,
		defaultFields: make(out.LogFields),
	}, nil
}

func (l *ZapLogger) WithFields(fields out.LogFields) out.LoggerPort {
	newLogger := &ZapLogger{
		base:          l.base,
		defaultFields: make(out.LogFields),
		module:        l.module,
	}

	for k, v := range l.defaultFields {
		newLogger.defaultFields[k] = v
	}
	for k, v := range fields {
		newLogger.defaultFields[k] = v
	}

	return newLogger
}

func (l *ZapLogger) WithModule(module string) out.LoggerPort {
	return &ZapLogger{
		base:          l.base,
		defaultFields: l.defaultFields,
		module:        module,
	}
}

func (l *ZapLogger) Debug(event string, fields out.LogFields) {
	l.base.Debug(event, l.zapFields(fields)...)
}

func (l *ZapLogger) Info(event string, fields out.LogFields) {
	l.base.Info(event, l.zapFields(fields)...)
}

func (l *ZapLogger) Warn(event string, fields out.LogFields) {
	l.base.Warn(event, l.zapFields(fields)...)
}

func (l *ZapLogger) Error(event string, fields out.LogFields) {
	l.base.Error(event, l.zapFields(fields)...)
}

func (l *ZapLogger) zapFields(fields out.LogFields) []zap.Field {
	zapped := make([]zap.Field, 0, len(l.defaultFields)+len(fields)+1)

	module := l.module
	if module == "" {
		module = "unknown"
	}
	zapped = append(zapped, zap.String("module", module))

	for k, v := range l.defaultFields {
		zapped = append(zapped, zap.Any(k, v))
	}
	for k, v := range fields {
		zapped = append(zapped, zap.Any(k, v))
	}

	return zapped
}
