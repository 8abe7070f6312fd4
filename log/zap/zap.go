// Package zap adapts a *zap.Logger to the log.Logger interface, the
// structured-logging stack this module borrows from the pack's
// cascache/log/zap adapter rather than anything carried by the codec
// teacher, which has no logger of its own.
package zap

import (
	"go.uber.org/zap"

	"github.com/arloliu/cbc/log"
)

// Adapter dispatches log.Logger calls to an underlying *zap.Logger by
// level, so a caller holding a log.Logger never needs to know zap exists.
type Adapter struct{ L *zap.Logger }

func (a Adapter) Log(level log.Level, msg string, f log.Fields) {
	zf := toZapFields(f)
	switch level {
	case log.LevelDebug:
		a.L.Debug(msg, zf...)
	case log.LevelInfo:
		a.L.Info(msg, zf...)
	case log.LevelWarn:
		a.L.Warn(msg, zf...)
	case log.LevelError:
		a.L.Error(msg, zf...)
	default:
		a.L.Info(msg, zf...)
	}
}

func toZapFields(f log.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}

	return out
}
