// Package zap adapts a *zap.Logger to wlserial.Logger.
package zap

import (
	"github.com/unkn0wn-root/wlserial"
	"go.uber.org/zap"
)

var _ wlserial.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New names the logger "wlserial" so codec events are easy to filter.
func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l.Named("wlserial")} }

func (z ZapLogger) Debug(msg string, f wlserial.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f wlserial.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f wlserial.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f wlserial.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f wlserial.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
