package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"spec-summarizer/internal/domain"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

const redacted = "[REDACTED]"

// AppLogger implements the domain.Logger interface
type AppLogger struct {
	level   LogLevel
	logger  *log.Logger
	secrets []string
}

// NewLogger creates a logger writing to stdout. Every value in secrets is
// masked wherever it shows up in a message or field.
func NewLogger(levelStr string, secrets ...string) domain.Logger {
	return NewLoggerWithWriter(os.Stdout, levelStr, secrets...)
}

// NewLoggerWithWriter is NewLogger with an explicit destination.
func NewLoggerWithWriter(w io.Writer, levelStr string, secrets ...string) *AppLogger {
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	return &AppLogger{
		level:   parseLogLevel(levelStr),
		logger:  log.New(w, "", 0),
		secrets: kept,
	}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	if l.level <= INFO {
		l.log("INFO", msg, fields...)
	}
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	if l.level <= ERROR {
		allFields := append([]interface{}{"error", err}, fields...)
		l.log("ERROR", msg, allFields...)
	}
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	if l.level <= DEBUG {
		l.log("DEBUG", msg, fields...)
	}
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	if l.level <= WARN {
		l.log("WARN", msg, fields...)
	}
}

func (l *AppLogger) log(level, msg string, fields ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	logMsg := fmt.Sprintf("[%s] %s: %s", timestamp, level, l.redact(msg))

	if len(fields) > 0 {
		fieldStrs := make([]string, 0, len(fields)/2)
		for i := 0; i < len(fields); i += 2 {
			if i+1 < len(fields) {
				value := l.redact(fmt.Sprintf("%v", fields[i+1]))
				fieldStrs = append(fieldStrs, fmt.Sprintf("%v=%s", fields[i], value))
			}
		}
		if len(fieldStrs) > 0 {
			logMsg += " " + strings.Join(fieldStrs, " ")
		}
	}

	l.logger.Println(logMsg)
}

func (l *AppLogger) redact(s string) string {
	for _, secret := range l.secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}

// parseLogLevel converts string log level to LogLevel enum
func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}
