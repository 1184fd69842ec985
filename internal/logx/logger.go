// Package logx provides a small leveled logger with an audit sink, in the
// same shape as the hand-rolled structured logger used by the auction
// daemon this core's curve-arithmetic package was drawn alongside: a
// stdlib *log.Logger per sink, gated by a minimum level, with a separate
// audit trail for outcomes worth keeping regardless of verbosity.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a logging severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled logger with a dedicated audit sink.
type Logger struct {
	level   Level
	console *log.Logger
	audit   *log.Logger
}

// New returns a Logger writing at or above level to w, with audit entries
// additionally written to auditW (pass io.Discard to disable auditing).
func New(level Level, w, auditW io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	if auditW == nil {
		auditW = io.Discard
	}
	return &Logger{
		level:   level,
		console: log.New(w, "", log.LstdFlags),
		audit:   log.New(auditW, "", log.LstdFlags),
	}
}

// Default returns a Logger writing to stdout at Info level with no audit
// sink configured.
func Default() *Logger {
	return New(Info, os.Stdout, io.Discard)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.console.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

// Debugf logs at Debug level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(Debug, format, args...) }

// Infof logs at Info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(Info, format, args...) }

// Warnf logs at Warn level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(Warn, format, args...) }

// Errorf logs at Error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, format, args...) }

// Auditf records an outcome to the audit sink regardless of the
// configured minimum level — it is meant for handler dispositions
// (accepted/rejected with code), not general diagnostics.
func (l *Logger) Auditf(format string, args ...interface{}) {
	l.audit.Printf("AUDIT: %s", fmt.Sprintf(format, args...))
}
