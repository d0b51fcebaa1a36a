// Package execlog provides command-execution logging for the jj client.
// Logging is disabled unless a log file is configured; the hot path costs a
// nil check when disabled.
package execlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger     *log.Logger
	loggerOnce sync.Once
	logEnabled bool
)

// init auto-initializes the logger from environment variables.
// Set JJSUM_LOG_FILE to enable logging to a file.
// Set JJSUM_LOG_LEVEL to control verbosity (debug, info, warn, error).
func init() {
	logPath := os.Getenv("JJSUM_LOG_FILE")
	if logPath == "" {
		return // Logging disabled by default
	}

	if err := InitLogger(logPath, ParseLevel(os.Getenv("JJSUM_LOG_LEVEL"))); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize exec logger: %v\n", err)
	}
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// InitLogger initializes the exec logger to write to the specified file.
// If logPath is empty, logging stays disabled. Only the first call wins.
func InitLogger(logPath string, level log.Level) error {
	var initErr error
	loggerOnce.Do(func() {
		if logPath == "" {
			logEnabled = false
			return
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = err
			return
		}

		logger = log.NewWithOptions(f, log.Options{
			Level:           level,
			Prefix:          "exec",
			ReportTimestamp: true,
		})
		logEnabled = true
	})
	return initErr
}

// Logger returns the shared file logger, nil while logging is disabled.
func Logger() *log.Logger {
	if !logEnabled {
		return nil
	}
	return logger
}

// SetLogger allows injecting a custom logger (useful for testing).
func SetLogger(l *log.Logger) {
	logger = l
	logEnabled = l != nil
}

// Op creates a logging context for one command execution. It returns a
// function to call when the command completes.
//
// Usage:
//
//	done := Op("jj status")
//	defer done(nil) // or done(err) on failure
func Op(command string, keyvals ...any) func(error) {
	if !logEnabled || logger == nil {
		return func(error) {}
	}

	start := time.Now()
	return func(err error) {
		duration := time.Since(start)

		args := make([]any, 0, len(keyvals)+6)
		args = append(args, "cmd", Truncate(command, 120))
		args = append(args, "duration", duration.String())
		args = append(args, keyvals...)

		if err != nil {
			args = append(args, "error", err.Error())
			logger.Error("command failed", args...)
		} else {
			logger.Info("command complete", args...)
		}
	}
}

// Truncate shortens a string to maxLen characters for safe logging.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
