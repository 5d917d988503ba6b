package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = (*zapLogger)(nil)

func newZapLogger(cfg ZapConfig) *zapLogger {
	var zapCfg zap.Config
	if cfg.Mode == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}

	if cfg.ColorEnabled && zapCfg.Encoding == "console" {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Build only fails on bad config values; the fallback keeps logging alive.
		logger = zap.NewNop()
	}

	return &zapLogger{sugar: logger.Sugar()}
}

func (z *zapLogger) Debug(_ context.Context, args ...any) { z.sugar.Debug(args...) }
func (z *zapLogger) Debugf(_ context.Context, template string, args ...any) {
	z.sugar.Debugf(template, args...)
}
func (z *zapLogger) Info(_ context.Context, args ...any) { z.sugar.Info(args...) }
func (z *zapLogger) Infof(_ context.Context, template string, args ...any) {
	z.sugar.Infof(template, args...)
}
func (z *zapLogger) Warn(_ context.Context, args ...any) { z.sugar.Warn(args...) }
func (z *zapLogger) Warnf(_ context.Context, template string, args ...any) {
	z.sugar.Warnf(template, args...)
}
func (z *zapLogger) Error(_ context.Context, args ...any) { z.sugar.Error(args...) }
func (z *zapLogger) Errorf(_ context.Context, template string, args ...any) {
	z.sugar.Errorf(template, args...)
}
func (z *zapLogger) DPanic(_ context.Context, args ...any) { z.sugar.DPanic(args...) }
func (z *zapLogger) DPanicf(_ context.Context, template string, args ...any) {
	z.sugar.DPanicf(template, args...)
}
func (z *zapLogger) Panic(_ context.Context, args ...any) { z.sugar.Panic(args...) }
func (z *zapLogger) Panicf(_ context.Context, template string, args ...any) {
	z.sugar.Panicf(template, args...)
}
func (z *zapLogger) Fatal(_ context.Context, args ...any) { z.sugar.Fatal(args...) }
func (z *zapLogger) Fatalf(_ context.Context, template string, args ...any) {
	z.sugar.Fatalf(template, args...)
}
