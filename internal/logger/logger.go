package logger

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once

var logger *zap.Logger

type Options struct {
	globalConfigs *configs.LoggerConfigs
}

type Optioner func(o *Options)

func WithGlobalConfigs(c *configs.LoggerConfigs) Optioner {
	return func(o *Options) {
		o.globalConfigs = c
	}
}

func Init(ctx context.Context, options ...Optioner) {
	once.Do(func() {
		opts := &Options{}
		for _, o := range options {
			o(opts)
		}

		l, err := New(opts.globalConfigs)
		if err != nil {
			log.Fatalf("logger.Init: err = %s", err)
			return
		}
		logger = l
		zap.ReplaceGlobals(l)
	})
}

func New(c *configs.LoggerConfigs) (*zap.Logger, error) {
	zapConfigs := zap.NewProductionConfig()
	zapConfigs.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfigs.DisableStacktrace = true

	if c != nil {
		if c.Encoding != "" {
			zapConfigs.Encoding = c.Encoding
		}
		if c.Level != "" {
			level, err := zap.ParseAtomicLevel(c.Level)
			if err != nil {
				return nil, err
			}
			zapConfigs.Level = level
		}
	}

	return zapConfigs.Build(zap.AddCallerSkip(1))
}

func Logger() *zap.Logger {
	if logger == nil {
		return zap.L()
	}
	return logger
}

func Close() {
	if logger != nil {
		logger.Sync()
	}
}

func SDebug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

func SInfo(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}

func SWarn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

func SError(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

func SFatal(msg string, fields ...zap.Field) {
	Logger().Fatal(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

// Json logs v as a raw JSON field, falling back to reflection when v does not marshal.
func Json(key string, v interface{}) zap.Field {
	b, err := json.Marshal(v)
	if err != nil {
		return zap.Reflect(key, v)
	}
	return zap.String(key, string(b))
}
