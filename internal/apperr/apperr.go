// Package apperr — ошибки с кодом, которые хендлеры переводят в HTTP-статус.
package apperr

import (
	"errors"
	"net/http"
)

// Code — машинный код ошибки, уходит клиенту в поле "code"
type Code string

const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodePaymentRequired Code = "PAYMENT_REQUIRED"
	CodeUpstream        Code = "UPSTREAM_ERROR"
	CodeInternal        Code = "INTERNAL"
)

var codeStatus = map[Code]int{
	CodeInvalidInput:    http.StatusBadRequest,
	CodeUnauthenticated: http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusConflict,
	CodeRateLimited:     http.StatusTooManyRequests,
	CodePaymentRequired: http.StatusPaymentRequired,
	CodeUpstream:        http.StatusBadGateway,
	CodeInternal:        http.StatusInternalServerError,
}

// HTTPStatus — статус ответа для кода, неизвестный код = 500
func (c Code) HTTPStatus() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error — ошибка с кодом и сообщением, которое можно показать пользователю
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is сравнивает по коду, чтобы работал errors.Is(err, apperr.Unauthenticated(""))
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus — статус ответа для этой ошибки
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// New создаёт ошибку с кодом
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap добавляет причину к ошибке с кодом
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

func InvalidInput(msg string) *Error    { return New(CodeInvalidInput, msg) }
func Unauthenticated(msg string) *Error { return New(CodeUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return New(CodeForbidden, msg) }
func NotFound(msg string) *Error        { return New(CodeNotFound, msg) }
func Conflict(msg string) *Error        { return New(CodeConflict, msg) }

// CodeOf достаёт код из цепочки ошибок; без кода считаем ошибку внутренней
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf — сообщение для клиента. Для ошибок без кода текст не раскрываем.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
