package log

import (
	"context"
	"fmt"
	"log/slog"

	klog "github.com/go-kratos/kratos/v2/log"
)

// KratosLogger adapts a *slog.Logger to the kratos log.Logger interface,
// so the HTTP server and its middleware log through the SecureHandler.
type KratosLogger struct {
	logger *slog.Logger
}

var _ klog.Logger = (*KratosLogger)(nil)

// NewKratosLogger returns a kratos logger writing to logger.
// A nil logger falls back to slog.Default().
func NewKratosLogger(logger *slog.Logger) *KratosLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &KratosLogger{logger: logger}
}

// Log implements klog.Logger. The value of the "msg" key becomes the record
// message; the remaining pairs become attributes.
func (k *KratosLogger) Log(level klog.Level, keyvals ...any) error {
	msg := ""
	args := make([]any, 0, len(keyvals))
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 >= len(keyvals) {
			args = append(args, slog.Any("!BADKEY", keyvals[i]))
			break
		}
		if key == klog.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		args = append(args, slog.Any(key, keyvals[i+1]))
	}
	k.logger.Log(context.Background(), slogLevel(level), msg, args...)
	return nil
}

func slogLevel(level klog.Level) slog.Level {
	switch level {
	case klog.LevelDebug:
		return slog.LevelDebug
	case klog.LevelInfo:
		return slog.LevelInfo
	case klog.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
