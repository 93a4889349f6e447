package errs

import (
	"errors"
	"fmt"
)

// Kind — категория ошибки. Значения совпадают с кодами, которые отдаются клиенту
// в response.ErrorResponse.Code.
type Kind string

const (
	// Validation — ошибка данных на уровне поля (пустая тема, неверная неделя).
	Validation Kind = "VALIDATION_ERROR"
	// Precondition — структурное требование не выполнено (нет расписаний/активностей),
	// сетевые вызовы не выполняются.
	Precondition Kind = "PRECONDITION_FAILED"
	// DuplicateWeek — платформа сообщила о конфликте номера недели в классе.
	DuplicateWeek Kind = "DUPLICATE_WEEK"
	// NotFound — сущность не найдена в хранилище сессии.
	NotFound Kind = "NOT_FOUND"
	// Backend — транспортная ошибка или ответ платформы success:false.
	// Оба случая трактуются одинаково: операция не выполнена.
	Backend Kind = "UPSTREAM_ERROR"
)

// Error — ошибка с категорией и человекочитаемым сообщением.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создает ошибку указанной категории.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf — как New, но с форматированием сообщения.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap оборачивает причину, сохраняя её для errors.Is/As.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf возвращает категорию ошибки или пустую строку, если ошибка не наша.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind проверяет, относится ли ошибка к указанной категории.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf достаёт сообщение для показа пользователю; для чужих ошибок — err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
