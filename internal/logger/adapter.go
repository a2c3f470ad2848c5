package logger

import (
	"go.uber.org/zap"
)

type ZapToAntsLogger struct {
	logger *zap.SugaredLogger
}

func NewZapToAntsLogger(l *zap.Logger) *ZapToAntsLogger {
	return &ZapToAntsLogger{
		logger: l.Sugar(),
	}
}

func (l *ZapToAntsLogger) Printf(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

type ZapToPahoLogger struct {
	logger *zap.SugaredLogger
}

func NewZapToPahoLogger(l *zap.Logger) *ZapToPahoLogger {
	return &ZapToPahoLogger{
		logger: l.Sugar(),
	}
}

func (l *ZapToPahoLogger) Println(v ...interface{}) {
	l.logger.Debug(v...)
}

func (l *ZapToPahoLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf(format, v...)
}
