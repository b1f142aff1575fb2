package models

import (
	"errors"
	"fmt"
)

// Error codes surfaced at the crawler boundary.
const (
	CodeExtraction    = "EXTRACTION_ERROR"
	CodeCacheIO       = "CACHE_IO_ERROR"
	CodeConfiguration = "CONFIG_ERROR"
)

var (
	ErrExtraction    = errors.New("document extraction failed")
	ErrCacheIO       = errors.New("cache storage failure")
	ErrConfiguration = errors.New("invalid configuration")
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match an AppError against the sentinel of its code.
func (e *AppError) Is(target error) bool {
	switch e.Code {
	case CodeExtraction:
		return target == ErrExtraction
	case CodeCacheIO:
		return target == ErrCacheIO
	case CodeConfiguration:
		return target == ErrConfiguration
	}
	return false
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ExtractionError reports an unreadable or unsupported document.
func ExtractionError(message string, cause error) error {
	return NewAppError(CodeExtraction, message, cause)
}

// CacheIOError reports a storage failure in a cache backend.
func CacheIOError(message string, cause error) error {
	return NewAppError(CodeCacheIO, message, cause)
}

// ConfigurationError reports an invalid option, rejected before processing starts.
func ConfigurationError(format string, args ...any) error {
	return NewAppError(CodeConfiguration, fmt.Sprintf(format, args...), nil)
}
