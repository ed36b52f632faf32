package crud

import "go.uber.org/zap"

// Logger is the optional diagnostic sink for a Service. Log calls are side
// effects only and never influence the returned envelope.
type Logger interface {
	Log(message string)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(message string)

// Log calls f(message).
func (f LoggerFunc) Log(message string) {
	f(message)
}

// zapLogger forwards Log calls to a zap logger at info level.
type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger wraps l as a Logger. A nil l yields a no-op logger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{l: l.Named("crud")}
}

func (z zapLogger) Log(message string) {
	z.l.Info(message)
}
