// Package log provides the engine's single diagnostic sink: a
// sync.Once-guarded file logger for verbose/device detail, plus a
// one-line fatal message that goes straight to stderr independent of
// the log file. Neither log/slog nor a third-party structured logger
// is used here.
package log

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileLogger appends timestamped diagnostic lines to a single log file
// for the lifetime of the process.
type FileLogger struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

var (
	logger     *FileLogger
	loggerOnce sync.Once
)

// Get returns the process-wide singleton logger, opening the log file
// on first use.
func Get() *FileLogger {
	loggerOnce.Do(func() {
		logger = &FileLogger{}
		logger.init()
	})
	return logger
}

func (l *FileLogger) init() {
	path := os.Getenv("NAMEHASH_LOG_FILE")
	if path == "" {
		path = fmt.Sprintf("namehash_%s.log", time.Now().Format("20060102_150405"))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v\n", path, err)
		return
	}
	l.file = file
	l.writer = bufio.NewWriter(file)
}

// Printf writes a timestamped diagnostic line. A logger with no open
// file (init failed) silently drops the line rather than panicking.
func (l *FileLogger) Printf(format string, args ...any) {
	if l == nil || l.writer == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "[%s] ", time.Now().Format("2006/01/02 15:04:05"))
	fmt.Fprintf(l.writer, format, args...)
	l.writer.WriteString("\n")
	l.writer.Flush()
}

// Close flushes and releases the log file.
func (l *FileLogger) Close() {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Flush()
	l.file.Close()
}

// Fatal writes a human-readable message to stderr and exits 1, a
// fatal-error path independent of the diagnostics file.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, "namehash:", err)
	os.Exit(1)
}
