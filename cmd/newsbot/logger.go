// cmd/newsbot/logger.go
package main

import (
    "fmt"
    "io"
    "log"
    "os"
    "path/filepath"
    "sync"
    "time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
    LogDebug LogLevel = iota
    LogInfo
    LogWarning
    LogError
)

var logLevelStrings = map[LogLevel]string{
    LogDebug:   "DEBUG",
    LogInfo:    "INFO",
    LogWarning: "WARN",
    LogError:   "ERROR",
}

func parseLogLevel(s string) LogLevel {
    switch s {
    case "DEBUG":
        return LogDebug
    case "WARN":
        return LogWarning
    case "ERROR":
        return LogError
    default:
        return LogInfo
    }
}

// Logger handles application logging
type Logger struct {
    logger   *log.Logger
    file     *os.File
    level    LogLevel
    filename string
    maxSize  int64
    mutex    sync.Mutex
}

var (
    logInstance *Logger
    logOnce     = new(sync.Once)
)

// InitLogger initializes the global logger instance with a log file.
// When the file cannot be opened the process keeps a stdout-only logger
// and the error is returned, so GetLogger is never nil.
func InitLogger(logPath string, level LogLevel) error {
    var err error
    logOnce.Do(func() {
        logInstance, err = newLogger(logPath, level)
        if err != nil {
            logInstance = stdoutLogger(level)
        }
    })
    return err
}

// GetLogger returns the global logger, creating a stdout-only logger on
// first use when InitLogger was never called (tests, library use).
func GetLogger() *Logger {
    logOnce.Do(func() {
        logInstance = stdoutLogger(parseLogLevel(GetEnvString(EnvLogLevel, "INFO")))
    })
    return logInstance
}

func stdoutLogger(level LogLevel) *Logger {
    return &Logger{
        logger: log.New(os.Stdout, "", log.LstdFlags),
        level:  level,
    }
}

// newLogger creates a new logger instance
func newLogger(logPath string, level LogLevel) (*Logger, error) {
    if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
        return nil, fmt.Errorf("failed to create log directory: %v", err)
    }

    file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
    if err != nil {
        return nil, fmt.Errorf("failed to open log file: %v", err)
    }

    multiWriter := io.MultiWriter(file, os.Stdout)

    l := &Logger{
        logger:   log.New(multiWriter, "", log.LstdFlags),
        file:     file,
        level:    level,
        filename: logPath,
        maxSize:  50 * 1024 * 1024, // 50MB
    }

    l.Info("Logger initialized")
    return l, nil
}

// log formats and writes a log message
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
    if level < l.level {
        return
    }

    l.mutex.Lock()
    defer l.mutex.Unlock()

    if err := l.rotateIfNeeded(); err != nil {
        fmt.Fprintf(os.Stderr, "Failed to rotate log file: %v\n", err)
    }

    msg := fmt.Sprintf("[%s] %s", logLevelStrings[level], fmt.Sprintf(format, args...))
    l.logger.Print(msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
    l.log(LogDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
    l.log(LogInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
    l.log(LogWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
    l.log(LogError, format, args...)
}

// rotateIfNeeded checks if log rotation is needed and performs it
func (l *Logger) rotateIfNeeded() error {
    if l.file == nil {
        return nil
    }

    info, err := l.file.Stat()
    if err != nil {
        return fmt.Errorf("failed to stat log file: %v", err)
    }

    if info.Size() < l.maxSize {
        return nil
    }

    if err := l.file.Close(); err != nil {
        return fmt.Errorf("failed to close log file: %v", err)
    }

    timestamp := time.Now().Format("20060102-150405")
    rotatedPath := fmt.Sprintf("%s.%s", l.filename, timestamp)

    if err := os.Rename(l.filename, rotatedPath); err != nil {
        return fmt.Errorf("failed to rename log file: %v", err)
    }

    file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
    if err != nil {
        return fmt.Errorf("failed to open new log file: %v", err)
    }

    l.logger.SetOutput(io.MultiWriter(file, os.Stdout))
    l.file = file
    return nil
}

// Close closes the logger and underlying file
func (l *Logger) Close() error {
    l.mutex.Lock()
    defer l.mutex.Unlock()

    if l.file == nil {
        return nil
    }
    return l.file.Close()
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level LogLevel) {
    l.mutex.Lock()
    defer l.mutex.Unlock()
    l.level = level
}
