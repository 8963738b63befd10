/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes JSON audit entries.  A nil *Logger is valid and discards
// everything, so callers don't have to check whether auditing is on.
type Logger struct {
	logger  *zap.Logger
	cleanup func()
}

// InitLogger opens output ("stdout", "stderr" or a file path) for audit
// logging.  An empty output disables auditing and returns a nil Logger.
func InitLogger(output string) (*Logger, error) {
	if output == "" {
		return nil, nil
	}
	ws, cleanup, err := zap.Open(output)
	if err != nil {
		return nil, errors.Wrapf(err, "while opening audit output %q", output)
	}
	l := NewLogger(ws)
	l.cleanup = cleanup
	return l, nil
}

// NewLogger returns a Logger writing JSON lines to ws.
func NewLogger(ws zapcore.WriteSyncer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		ws, zap.DebugLevel)
	return &Logger{logger: zap.New(core)}
}

// AuditI logs msg at info level.  args are key/value pairs.
func (l *Logger) AuditI(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Info(msg, fields(args)...)
}

// AuditE logs msg at error level.  args are key/value pairs.
func (l *Logger) AuditE(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Error(msg, fields(args)...)
}

// Sync flushes buffered entries and releases the output.
func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.logger.Sync()
	if l.cleanup != nil {
		l.cleanup()
		l.cleanup = nil
	}
}

func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		flds = append(flds, zap.Any(key, args[i+1]))
	}
	return flds
}
