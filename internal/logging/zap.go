package logging

import "go.uber.org/zap"

// zapAdapter adapts a caller-supplied *zap.Logger to the Logger surface
// this package exposes, for deployments that already standardize on zap
// (as the wider dumper fleet's control-plane components do) instead of the
// stdlib-log-backed default.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps z so it can be installed with SetDefault, or passed
// directly anywhere a *Logger is expected via the Logger interface.
func NewZapLogger(z *zap.Logger) *Logger {
	return &Logger{
		level:   LevelDebug,
		backend: &zapAdapter{sugar: z.Sugar()},
	}
}

func (z *zapAdapter) log(level LogLevel, prefix, msg string, args []any) {
	kv := toKeyValues(args)
	switch level {
	case LevelDebug:
		z.sugar.Debugw(msg, kv...)
	case LevelInfo:
		z.sugar.Infow(msg, kv...)
	case LevelWarn:
		z.sugar.Warnw(msg, kv...)
	default:
		z.sugar.Errorw(msg, kv...)
	}
}

func toKeyValues(args []any) []any {
	if len(args)%2 != 0 {
		return args[:len(args)-1]
	}
	return args
}
