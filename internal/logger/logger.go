package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lmittmann/tint"

	"fishdetector/internal/config"
)

// Logger provides leveled logging (debug/info/warning/error) to files and stdout/stderr.
type Logger struct {
	console    *slog.Logger
	infoLog    *slog.Logger
	warningLog *slog.Logger
	errorLog   *slog.Logger
	files      []*os.File
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger writing to the console and, when cfg.LogDirectory
// is set, to per-level files inside it.
func NewLogger(cfg *config.Config) (*Logger, error) {
	l := &Logger{
		logDir:  cfg.LogDirectory,
		console: newConsole(os.Stderr, slog.LevelDebug),
	}

	if l.logDir == "" {
		return l, nil
	}
	if err := os.MkdirAll(l.logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := l.setupFileLoggers(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// NewConsole returns a file-less Logger writing colored lines to w.
func NewConsole(w io.Writer) *Logger {
	return &Logger{console: newConsole(w, slog.LevelDebug)}
}

func newConsole(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

// setupFileLoggers opens the per-level log files.
func (l *Logger) setupFileLoggers() error {
	open := func(name string) (*slog.Logger, error) {
		file, err := os.OpenFile(filepath.Join(l.logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		l.files = append(l.files, file)
		return slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})), nil
	}

	var err error
	if l.infoLog, err = open("info.log"); err != nil {
		return err
	}
	if l.warningLog, err = open("warning.log"); err != nil {
		return err
	}
	if l.errorLog, err = open("error.log"); err != nil {
		return err
	}
	return nil
}

// Debug writes a formatted debug entry to the console and info.log.
func (l *Logger) Debug(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Debug(msg)
	if l.infoLog != nil {
		l.infoLog.Debug(msg)
	}
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Info(msg)
	if l.infoLog != nil {
		l.infoLog.Info(msg)
	}
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Warn(msg)
	if l.warningLog != nil {
		l.warningLog.Warn(msg)
	}
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Error(msg)
	if l.errorLog != nil {
		l.errorLog.Error(msg)
	}
}

// LogDirectory returns the directory holding the level files, or "".
func (l *Logger) LogDirectory() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return nil
	}
	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.Truncate(filePath, 0); err != nil {
		return fmt.Errorf("failed to clear %s: %w", fileName, err)
	}
	l.console.Info("log file cleared", "file", fileName)
	return nil
}

// Close releases the log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	l.infoLog, l.warningLog, l.errorLog = nil, nil, nil
	return firstErr
}
