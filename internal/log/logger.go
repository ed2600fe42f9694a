package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes diagnostic messages to the configured writer (typically
// stderr). Debug output is emitted only when the logger is verbose;
// warnings are always written.
type Logger struct {
	z *zap.Logger
}

// New returns a Logger writing console-encoded entries to w.
func New(w io.Writer, verbose bool) *Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zapcore.EncoderConfig{
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return &Logger{z: zap.New(core)}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// Printf writes a formatted debug message. It is a no-op unless verbose.
func (l *Logger) Printf(format string, args ...any) {
	l.zap().Sugar().Debugf(format, args...)
}

// Debug writes a structured debug entry.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap().Debug(msg, fields...)
}

// Warn writes a structured warning.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap().Warn(msg, fields...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap().Sync()
}

func (l *Logger) zap() *zap.Logger {
	if l == nil || l.z == nil {
		return zap.NewNop()
	}
	return l.z
}
