// Package logging builds the zap logger used by the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/warplan/internal/config"
)

// New builds a logger that writes console output to console (os.Stderr
// when nil) and, when cfg.File is set, JSON lines to a rotated file. An
// unknown level falls back to warn.
func New(name string, cfg config.LogConfig, console io.Writer) *zap.Logger {
	if console == nil {
		console = os.Stderr
	}
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(console)), level)

	if cfg.File != "" {
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), level),
		)
	}

	return zap.New(core, zap.AddCaller()).Named(name)
}

// ParseLevel parses a level name case-insensitively. Empty or unknown
// names give warn.
func ParseLevel(s string) zapcore.Level {
	name := strings.ToLower(strings.TrimSpace(s))
	// zapcore reads an empty name as info.
	if name == "" {
		return zapcore.WarnLevel
	}
	lvl := zapcore.WarnLevel
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}
