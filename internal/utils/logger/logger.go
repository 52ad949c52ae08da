// Package logger is a small colored console logger shared by every service.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

type Logger struct {
	serviceName string
	debug       bool
}

var (
	infoEmoji    = "ℹ️ "
	successEmoji = "✅ "
	warnEmoji    = "⚠️ "
	errorEmoji   = "❌ "
	debugEmoji   = "🔍 "
)

func New(serviceName string) *Logger {
	return &Logger{
		serviceName: serviceName,
		debug:       os.Getenv("LOG_DEBUG") != "",
	}
}

func (l *Logger) formatMessage(level, emoji, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	return fmt.Sprintf("%s| %s | %-7s | %s:%d | %s | %s",
		emoji,
		timestamp,
		level,
		filepath.Base(file),
		line,
		l.serviceName,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.formatMessage("INFO", infoEmoji, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.formatMessage("SUCCESS", successEmoji, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.formatMessage("WARN", warnEmoji, fmt.Sprintf(msg, args...)))
}

// Error logs and returns the wrapped error so callers can log and propagate
// in one statement.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	args = append(args, err)
	color.Red(l.formatMessage("ERROR", errorEmoji, fmt.Sprintf(msg+": %v", args...)))
	return fmt.Errorf("%s: %w", msg, err)
}

// Debug is silent unless LOG_DEBUG is set.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	color.Magenta(l.formatMessage("DEBUG", debugEmoji, fmt.Sprintf(msg, args...)))
}
