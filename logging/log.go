package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerKey struct{}

func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey{}, logger)
}

func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return New(zap.DebugLevel, Options{})
}

// Options configure the optional rotated log file.
type Options struct {
	FileName string
	// MaxSize in megabytes before the file is rotated.
	MaxSize int
	// MaxBackups is the number of rotated files to keep, 0 keeps all of them.
	MaxBackups int
	JSON       bool
}

func New(level zapcore.LevelEnabler, opts Options) *zap.Logger {
	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	consoleSyncer := zapcore.Lock(os.Stdout)
	var cores []zapcore.Core
	cores = append(cores, zapcore.NewCore(encoder, consoleSyncer, level))

	if opts.FileName != "" {
		maxSize := opts.MaxSize
		if maxSize == 0 {
			maxSize = 500
		}
		fileLogger := &lumberjack.Logger{
			Filename:   opts.FileName,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     28,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileLogger), zap.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}
