package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoLogSource      = errors.New("no log source found")
	ErrMalformedLine    = errors.New("malformed log line")
	ErrInvalidTimestamp = errors.New("invalid log timestamp")
	ErrInvalidFilter    = errors.New("invalid event filter")
	ErrFileNotFound     = errors.New("file not found")
	ErrConfigNotFound   = errors.New("config not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrNotConnected     = errors.New("transport not connected")
	ErrQueueFull        = errors.New("outbound queue full")
	ErrAlreadyStarted   = errors.New("engine already started")
	ErrTimeout          = errors.New("operation timeout")
)

func NewNoLogSourceError(dir, pattern string) error {
	return fmt.Errorf("%w: no file matching %q in %s", ErrNoLogSource, pattern, dir)
}

func NewMalformedLineError(line string) error {
	return fmt.Errorf("%w: %q", ErrMalformedLine, line)
}

func NewTimestampError(value string, reason error) error {
	return fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, value, reason)
}

func NewFilterError(expression string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidFilter, expression, reason)
}

func NewFileError(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, reason)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}
