// cmd/newsbot/errors.go
package main

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
    ErrorTypeCrawler   ErrorType = "crawler"
    ErrorTypeProcessor ErrorType = "processor"
    ErrorTypeGenerator ErrorType = "generator"
    ErrorTypePublish   ErrorType = "publish"
    ErrorTypeImage     ErrorType = "image"
    ErrorTypeConfig    ErrorType = "config"
    ErrorTypeScheduler ErrorType = "scheduler"
)

// BotError is the application error type. Per-item and per-source errors
// carry enough context to be logged and dropped without aborting a cycle.
type BotError struct {
    Type    ErrorType `json:"type"`
    Code    string    `json:"code"`
    Message string    `json:"message"`
    Inner   error     `json:"inner,omitempty"`
}

func (e *BotError) Error() string {
    if e.Inner != nil {
        return fmt.Sprintf("[%s-%s] %s: %v", e.Type, e.Code, e.Message, e.Inner)
    }
    return fmt.Sprintf("[%s-%s] %s", e.Type, e.Code, e.Message)
}

func (e *BotError) Unwrap() error {
    return e.Inner
}

// NewError creates a new BotError
func NewError(errType ErrorType, code string, message string, inner error) *BotError {
    return &BotError{
        Type:    errType,
        Code:    code,
        Message: message,
        Inner:   inner,
    }
}

// Common error constructors
func NewCrawlerError(code string, message string, inner error) *BotError {
    return NewError(ErrorTypeCrawler, code, message, inner)
}

func NewProcessorError(code string, message string, inner error) *BotError {
    return NewError(ErrorTypeProcessor, code, message, inner)
}

func NewGeneratorError(code string, message string, inner error) *BotError {
    return NewError(ErrorTypeGenerator, code, message, inner)
}

func NewConfigError(code string, message string, inner error) *BotError {
    return NewError(ErrorTypeConfig, code, message, inner)
}

func NewSchedulerError(code string, message string, inner error) *BotError {
    return NewError(ErrorTypeScheduler, code, message, inner)
}

// Error codes
const (
    // Crawler error codes
    ErrFetchRequest = "FETCH_001"
    ErrFetchStatus  = "FETCH_002"
    ErrFetchParse   = "FETCH_003"

    // Processor error codes
    ErrProcessEmpty = "PROC_001"

    // Generator error codes
    ErrGenerateNoItems = "GEN_001"

    // Config error codes
    ErrConfigLoad       = "CONFIG_001"
    ErrConfigParse      = "CONFIG_002"
    ErrConfigValidation = "CONFIG_003"

    // Scheduler error codes
    ErrSchedulerCron = "SCHED_001"
)
