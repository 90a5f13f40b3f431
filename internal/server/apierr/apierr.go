// Package apierr определяет таксономию HTTP ошибок API.
// Любая ошибка обработчика сводится к *Error и сериализуется
// в единый конверт {name, message, errors?}; детали внутренних
// ошибок клиенту не раскрываются.
package apierr

import (
	"errors"
	"net/http"

	"github.com/iudanet/blogapi/internal/validation"
)

// Error структурированная ошибка API
type Error struct {
	Name       string            `json:"name"`             // классификация (Unauthorized, NotFound, ...)
	Message    string            `json:"message"`          // сообщение для клиента
	StatusCode int               `json:"-"`                // HTTP статус
	Fields     validation.Errors `json:"errors,omitempty"` // нарушения по полям (только ValidationFailed)
}

func (e *Error) Error() string {
	return e.Message
}

// ValidationFailed ошибка валидации с полным списком нарушений по полям (400)
func ValidationFailed(fields validation.Errors) *Error {
	return &Error{
		Name:       "ValidationFailed",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Fields:     fields,
	}
}

// BadRequest некорректный запрос (400)
func BadRequest(message string) *Error {
	return &Error{Name: "BadRequest", Message: message, StatusCode: http.StatusBadRequest}
}

// Unauthorized отсутствующие или недействительные учетные данные (401)
func Unauthorized(message string) *Error {
	return &Error{Name: "Unauthorized", Message: message, StatusCode: http.StatusUnauthorized}
}

// Forbidden аутентифицирован, но недостаточно прав (403)
func Forbidden(message string) *Error {
	return &Error{Name: "Forbidden", Message: message, StatusCode: http.StatusForbidden}
}

// NotFound целевой ресурс отсутствует (404)
func NotFound(message string) *Error {
	return &Error{Name: "NotFound", Message: message, StatusCode: http.StatusNotFound}
}

// Internal неклассифицированная ошибка (500), детали скрыты от клиента
func Internal() *Error {
	return &Error{Name: "InternalError", Message: "internal server error", StatusCode: http.StatusInternalServerError}
}

// From приводит произвольную ошибку к *Error.
// Неклассифицированные ошибки становятся Internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}
