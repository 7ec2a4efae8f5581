package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// newLogger builds the console logger: info and debug go to stdout, errors
// to stderr. Levels are none, normal and debug.
func newLogger(level string, stdout, stderr io.Writer) (*zap.Logger, error) {
	var low zapcore.Level
	switch level {
	case "none":
		return zap.NewNop(), nil
	case "normal":
		low = zapcore.InfoLevel
	case "debug":
		low = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("unknown log level %q: want none|normal|debug", level)
	}

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return low <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(stdout), zapcore.Lock(zapcore.AddSync(stdout)), lowPriority),
		zapcore.NewCore(consoleEncoder(stderr), zapcore.Lock(zapcore.AddSync(stderr)), highPriority),
	)
	return zap.New(core), nil
}

func consoleEncoder(w io.Writer) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if enableColorOutput(w) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

func enableColorOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
