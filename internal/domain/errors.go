package domain

import (
	"errors"
	"fmt"
	"time"
)

// Виды ошибок. Конкретные ошибки оборачивают их, HTTP слой
// сопоставляет вид со статусом через errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("rate limited")
	ErrNoTarget      = errors.New("no target")
	ErrStateConflict = errors.New("state conflict")
	ErrNotFound      = errors.New("not found")
	ErrExpired       = errors.New("expired")
	ErrForbidden     = errors.New("forbidden")
)

// kindError - сообщение для пользователя плюс вид ошибки.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NewError создает ошибку вида kind с текстом msg.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func Invalid(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &kindError{kind: ErrStateConflict, msg: fmt.Sprintf(format, args...)}
}

// RateLimitError - действие пришло раньше, чем истек интервал.
type RateLimitError struct {
	Action  string
	RetryIn time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %dms", e.Action, e.RetryIn.Milliseconds())
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }
