// Package logrus adapts a *logrus.Entry to wlserial.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/wlserial"
)

var _ wlserial.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New tags every entry with component=wlserial.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "wlserial")}
}

func (l LogrusLogger) Debug(msg string, f wlserial.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l LogrusLogger) Info(msg string, f wlserial.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f wlserial.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f wlserial.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
