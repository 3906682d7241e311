package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Spok95/smartschool/internal/ctxutil"
)

type Log struct {
	Base   *zap.Logger
	Level  zap.AtomicLevel // http.Handler: GET/PUT {"level":"debug"}
	Closer func()
}

// Init: в prod JSON с семплированием, в dev консоль. Неизвестный уровень → info.
func Init(level, env string) (*Log, error) {
	lvl := zap.NewAtomicLevelAt(zap.InfoLevel)
	_ = lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level))))

	cfg := zap.NewDevelopmentConfig()
	if strings.EqualFold(env, "prod") {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = lvl
	cfg.InitialFields = map[string]any{"service": "smartschool"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	base, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, err
	}
	return &Log{Base: base, Level: lvl, Closer: func() { _ = base.Sync() }}, nil
}

// FromContext дописывает к логгеру поля из контекста (учитель, операция).
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	if id, ok := ctxutil.TeacherID(ctx); ok {
		fields = append(fields, zap.String("teacher_id", id))
	}
	if op, ok := ctxutil.Op(ctx); ok {
		fields = append(fields, zap.String("op", op))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
