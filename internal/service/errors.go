package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNothingStaged     = errors.New("nothing staged for confirmation")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError carries the message shown to the user when a form is rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// NoticeLevel is how a notice should be presented.
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeInfo
)

// Notice is a transient message for the user after a mutation.
type Notice struct {
	Level NoticeLevel
	Text  string
}

func success(format string, args ...interface{}) Notice {
	return Notice{Level: NoticeSuccess, Text: fmt.Sprintf(format, args...)}
}

func info(format string, args ...interface{}) Notice {
	return Notice{Level: NoticeInfo, Text: fmt.Sprintf(format, args...)}
}
