package kitelog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger configured with datetime, caller information,
// and splits output to stdout and stderr based on error level.
// Debug entries are only written when verbose is set.
func New(verbose bool) *zap.Logger {
	return newLogger(verbose, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
}

// NewStderr is New for command line tools whose stdout carries their output:
// every level is written to stderr.
func NewStderr(verbose bool) *zap.Logger {
	stderr := zapcore.Lock(os.Stderr)
	return newLogger(verbose, stderr, stderr)
}

func newLogger(verbose bool, out, errOut zapcore.WriteSyncer) *zap.Logger {
	minLevel := zapcore.InfoLevel
	if verbose {
		minLevel = zapcore.DebugLevel
	}

	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= minLevel && lvl < zapcore.ErrorLevel
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(config)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, errOut, isErrorLevel),
		zapcore.NewCore(encoder, out, isInfoLevel),
	)
	return zap.New(core, zap.AddCaller())
}
