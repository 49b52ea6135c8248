package querytpl

import (
	"fmt"

	"go.uber.org/zap"
)

type LogLevel int

const (
	LogLevelDev LogLevel = iota
	LogLevelProd
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zapLogger struct {
	l *zap.SugaredLogger
}

// NewLogger builds a zap backed Logger for the given environment.
func NewLogger(env LogLevel) (Logger, error) {
	l, err := newZapLogger(env)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func newZapLogger(env LogLevel) (*zapLogger, error) {
	var conf zap.Config
	switch env {
	case LogLevelDev:
		conf = zap.NewDevelopmentConfig()
	case LogLevelProd:
		conf = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("log level should be either LogLevelDev or LogLevelProd")
	}
	l, err := conf.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l.Sugar()}, nil
}

func nopLogger() *zapLogger {
	return &zapLogger{zap.NewNop().Sugar()}
}

func (z *zapLogger) Debugf(format string, args ...any) {
	z.l.Debugf("[DEBUG] "+format, args...)
}

func (z *zapLogger) Infof(format string, args ...any) {
	z.l.Infof("[INFO] "+format, args...)
}

func (z *zapLogger) Warnf(format string, args ...any) {
	z.l.Warnf("[WARN] "+format, args...)
}

func (z *zapLogger) Errorf(format string, args ...any) {
	z.l.Errorf("[ERROR] "+format, args...)
}
