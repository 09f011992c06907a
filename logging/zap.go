package logging

import (
	"context"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ZapLogger adapts a *zap.Logger to the library Logger interface so an
// application that already runs zap can receive analysis logs as structured
// JSON instead of the colored default output.
//
//	z, _ := zap.NewProduction()
//	logging.SetGlobalLogger(logging.NewZapLogger(z))
type ZapLogger struct {
	base  *zap.Logger
	level *Level
}

// NewZapLogger wraps z. A nil z falls back to zap.NewNop().
func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	level := DebugLevel
	return &ZapLogger{base: z, level: &level}
}

// NewZapProductionLogger builds a JSON zap logger with production defaults.
func NewZapProductionLogger() (*ZapLogger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(z), nil
}

func zapFields(err error, fields []Fields) []zap.Field {
	merged := make(Fields)
	for _, f := range fields {
		maps.Copy(merged, f)
	}

	out := make([]zap.Field, 0, len(merged)+1)
	if err != nil {
		out = append(out, zap.Error(err))
	}
	for _, key := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, zap.Any(key, merged[key]))
	}
	return out
}

func (z *ZapLogger) enabled(level Level) bool {
	return level >= *z.level
}

func (z *ZapLogger) Debug(msg string, fields ...Fields) {
	if z.enabled(DebugLevel) {
		z.base.Debug(msg, zapFields(nil, fields)...)
	}
}

func (z *ZapLogger) Info(msg string, fields ...Fields) {
	if z.enabled(InfoLevel) {
		z.base.Info(msg, zapFields(nil, fields)...)
	}
}

func (z *ZapLogger) Warn(msg string, fields ...Fields) {
	if z.enabled(WarnLevel) {
		z.base.Warn(msg, zapFields(nil, fields)...)
	}
}

func (z *ZapLogger) Error(err error, msg string, fields ...Fields) {
	if z.enabled(ErrorLevel) {
		z.base.Error(msg, zapFields(err, fields)...)
	}
}

// Fatal logs and exits through zap, which calls os.Exit(1).
func (z *ZapLogger) Fatal(err error, msg string, fields ...Fields) {
	z.base.Fatal(msg, zapFields(err, fields)...)
}

func (z *ZapLogger) WithFields(fields Fields) Logger {
	return &ZapLogger{
		base:  z.base.With(zapFields(nil, []Fields{fields})...),
		level: z.level,
	}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := FieldsFromContext(ctx); ok {
		return z.WithFields(fields)
	}
	return z
}

func (z *ZapLogger) SetLevel(level Level) {
	*z.level = level
}

// Sync flushes buffered zap output.
func (z *ZapLogger) Sync() error {
	return z.base.Sync()
}
