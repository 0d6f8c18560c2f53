// Package logging provides the leveled diagnostic logger. Diagnostics go to
// stderr (and optionally an append-mode log file); the run trace itself is
// written to stdout by the display package and never passes through here.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/backmassage/shellwrapper/internal/config"
	"github.com/backmassage/shellwrapper/internal/display"
)

// ANSI level colors, applied only when colors are enabled.
var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[1;96m",
	zapcore.InfoLevel:  "\033[1;94m",
	zapcore.WarnLevel:  "\033[1;93m",
	zapcore.ErrorLevel: "\033[1;91m",
}

const colorReset = "\033[0m"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// New builds a logger writing to out, honoring cfg's verbosity and log
// file. color selects ANSI level tags on out; the log file always receives
// plain text. Call Close() when done.
func New(cfg *config.Config, out io.Writer, color bool, fields ...zap.Field) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(color)), zapcore.AddSync(out), level),
	}

	l := &Logger{}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(false)), zapcore.AddSync(f), level))
	}

	l.sugar = zap.New(zapcore.NewTee(cores...)).With(fields...).Sugar()
	return l, nil
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	levelEncoder := func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + lvl.CapitalString() + "]")
	}
	if color {
		levelEncoder = func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(levelColors[lvl] + "[" + lvl.CapitalString() + "]" + colorReset)
		}
	}
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(display.TimeLayout),
		EncodeLevel:      levelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// Close flushes buffered entries and closes the log file if one was opened.
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Success logs a positive outcome at INFO level.
func (l *Logger) Success(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Debug logs at DEBUG level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}
