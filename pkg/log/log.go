package log

import "context"

// Logger is the application-wide logging interface.
// The context parameter is reserved for correlation fields (request IDs);
// implementations must tolerate a nil context.
type Logger interface {
	Debug(ctx context.Context, args ...any)
	Debugf(ctx context.Context, template string, args ...any)
	Info(ctx context.Context, args ...any)
	Infof(ctx context.Context, template string, args ...any)
	Warn(ctx context.Context, args ...any)
	Warnf(ctx context.Context, template string, args ...any)
	Error(ctx context.Context, args ...any)
	Errorf(ctx context.Context, template string, args ...any)
	DPanic(ctx context.Context, args ...any)
	DPanicf(ctx context.Context, template string, args ...any)
	Panic(ctx context.Context, args ...any)
	Panicf(ctx context.Context, template string, args ...any)
	Fatal(ctx context.Context, args ...any)
	Fatalf(ctx context.Context, template string, args ...any)
}

// ZapConfig holds the zap logger configuration.
type ZapConfig struct {
	Level        string
	Mode         string // development | production
	Encoding     string // console | json
	ColorEnabled bool
}

// Init builds the zap-backed Logger. Invalid levels fall back to info.
func Init(cfg ZapConfig) Logger {
	return newZapLogger(cfg)
}
