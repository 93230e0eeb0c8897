// Package logging wraps charmbracelet/log behind the printf-style helpers
// the rest of the server calls, so call sites never depend on the concrete
// logging library directly.
package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

var logger *log.Logger

// Init configures the package-level logger. appName is used as the log
// prefix; level is one of "debug", "info", "warn", "error" (anything else
// falls back to info).
func Init(appName string, level string) {
	logger = log.New(os.Stderr)
	logger.SetPrefix(appName)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat(time.DateTime)
	logger.SetLevel(parseLevel(level))
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func ensure() {
	if logger == nil {
		Init("mahjongd", "info")
	}
}

func Fatal(format string, args ...any) {
	ensure()
	if len(args) == 0 {
		logger.Fatal(format)
	} else {
		logger.Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	ensure()
	if len(args) == 0 {
		logger.Info(format)
	} else {
		logger.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	ensure()
	if len(args) == 0 {
		logger.Warn(format)
	} else {
		logger.Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	ensure()
	if len(args) == 0 {
		logger.Error(format)
	} else {
		logger.Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	ensure()
	if len(args) == 0 {
		logger.Debug(format)
	} else {
		logger.Debugf(format, args...)
	}
}

// With returns a logger scoped with structured key/value pairs, for call
// sites that want to tag every line with e.g. a room id without repeating it
// in every format string.
func With(keyvals ...any) *log.Logger {
	ensure()
	return logger.With(keyvals...)
}
