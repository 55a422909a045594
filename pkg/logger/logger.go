package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	var err error
	L, err = config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
}

// SetLevel adjusts the global logger level from a config string such as
// "debug" or "warn". Unknown values keep the current level.
func SetLevel(level string) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		L.Warn("unknown log level, keeping default", zap.String("level", level))
		return
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(lvl)
	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		L.Warn("rebuild logger failed", zap.Error(err))
		return
	}
	L = built
}

// WithComponent returns a logger tagged with a component field for handlers,
// services, the order-event queue and so on.
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}
