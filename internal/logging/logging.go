// Package logging builds the process logger. The terminal belongs to the UI,
// so log lines go to a rotating JSON file instead of stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the active log file inside the log directory.
const FileName = "ramyun.log"

// New returns a sugared logger writing JSON to <logDir>/ramyun.log and
// installs it with zap.ReplaceGlobals so packages can log through zap.S().
// The returned func flushes buffered entries.
func New(logDir string, debug bool) (*zap.SugaredLogger, func(), error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	sink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), level)

	z := zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(sink)))
	restore := zap.ReplaceGlobals(z)

	closeFn := func() {
		_ = z.Sync()
		restore()
		_ = sink.Close()
	}
	return z.Sugar(), closeFn, nil
}
