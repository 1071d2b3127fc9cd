package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huynhanx03/go-esbulk/pkg/settings"
)

const defaultLevel = "info"

// New builds a zap logger writing JSON to stderr and, when a file name is
// configured, to a size-rotated file as well.
func New(cfg settings.Logger) (*zap.Logger, error) {
	levelName := cfg.LogLevel
	if levelName == "" {
		levelName = defaultLevel
	}

	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", levelName)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg.FileLogName != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FileLogName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
