package validation

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// PasswordSymbols допустимые спецсимволы пароля
	PasswordSymbols = "@$!%*?&"
)

// StringOpts параметры правила String
type StringOpts struct {
	Min      int
	Max      int
	Optional bool
}

// String проверяет строковое поле тела запроса: trim, HTML-экранирование,
// границы длины. Используется для полей, где разметка недопустима.
func String(name string, opts StringOpts) Rule {
	return func(_ context.Context, req *Request, out map[string]any) (*FieldError, error) {
		raw, exists := req.Body[name]
		if !exists || raw == nil {
			if opts.Optional {
				return nil, nil
			}
			return bodyError(name, fmt.Sprintf("%s should be a string", name), ""), nil
		}

		s, ok := raw.(string)
		if !ok {
			return bodyError(name, fmt.Sprintf("%s should be a string", name), ""), nil
		}

		s = strings.TrimSpace(s)
		if opts.Min > 0 && len(s) < opts.Min {
			return bodyError(name, lengthMessage(name, opts.Min, opts.Max), s), nil
		}
		if opts.Max > 0 && len(s) > opts.Max {
			return bodyError(name, lengthMessage(name, opts.Min, opts.Max), s), nil
		}

		out[name] = html.EscapeString(s)
		return nil, nil
	}
}

// RawString проверяет только тип поля, содержимое сохраняется дословно.
// Применяется там, где экранирование недопустимо (тело статьи).
func RawString(name string, optional bool) Rule {
	return func(_ context.Context, req *Request, out map[string]any) (*FieldError, error) {
		raw, exists := req.Body[name]
		if !exists || raw == nil {
			if optional {
				return nil, nil
			}
			return bodyError(name, fmt.Sprintf("%s should be a string", name), ""), nil
		}

		s, ok := raw.(string)
		if !ok {
			return bodyError(name, fmt.Sprintf("%s should be a string", name), ""), nil
		}
		if s == "" {
			return bodyError(name, fmt.Sprintf("%s should not be empty", name), ""), nil
		}

		out[name] = s
		return nil, nil
	}
}

// Boolean проверяет опциональное булево поле.
// Принимает bool или строки "true"/"false" (коэрция как в форм-данных).
func Boolean(name string) Rule {
	return func(_ context.Context, req *Request, out map[string]any) (*FieldError, error) {
		raw, exists := req.Body[name]
		if !exists || raw == nil {
			return nil, nil
		}

		switch v := raw.(type) {
		case bool:
			out[name] = v
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return bodyError(name, fmt.Sprintf("%s should be a boolean", name), v), nil
			}
			out[name] = b
		default:
			return bodyError(name, fmt.Sprintf("%s should be a boolean", name), ""), nil
		}

		return nil, nil
	}
}

// ID проверяет, что path-параметр является корректным UUID
func ID(name string) Rule {
	return func(_ context.Context, req *Request, _ map[string]any) (*FieldError, error) {
		value := req.Params[name]
		if _, err := uuid.Parse(value); err != nil {
			return &FieldError{
				Field:    name,
				Message:  fmt.Sprintf("%s should be a valid id", name),
				Location: "params",
				Value:    value,
			}, nil
		}
		return nil, nil
	}
}

// Username проверяет формат username: минимум 3 символа,
// только латинские буквы, цифры и нижнее подчеркивание
func Username(name string) Rule {
	message := fmt.Sprintf(
		"%s should at least have %d characters and only contain alphabet, number, and underscore characters",
		name, MinUsernameLen)

	return func(_ context.Context, req *Request, out map[string]any) (*FieldError, error) {
		raw, exists := req.Body[name]
		if !exists || raw == nil {
			return bodyError(name, message, ""), nil
		}

		s, ok := raw.(string)
		if !ok {
			return bodyError(name, message, ""), nil
		}

		s = strings.TrimSpace(s)
		if len(s) < MinUsernameLen || !UsernamePattern.MatchString(s) {
			return bodyError(name, message, s), nil
		}

		out[name] = s
		return nil, nil
	}
}

// UniqueUsername проверяет отсутствие пользователя с таким username.
// exists выполняет запрос к хранилищу под case-insensitive collation.
func UniqueUsername(name string, exists func(ctx context.Context, username string) (bool, error)) Rule {
	return func(ctx context.Context, req *Request, _ map[string]any) (*FieldError, error) {
		s, ok := req.Body[name].(string)
		if !ok {
			// формат проверяет правило Username, здесь нечего искать
			return nil, nil
		}

		taken, err := exists(ctx, strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if taken {
			return bodyError(name, fmt.Sprintf("%s already in use", name), strings.TrimSpace(s)), nil
		}

		return nil, nil
	}
}

// Password проверяет состав пароля: минимум 8 символов,
// хотя бы одна строчная и заглавная буква, цифра и спецсимвол
func Password(name string) Rule {
	message := fmt.Sprintf(
		"%s should at least have %d characters and at least have 1 uppercase, 1 lowercase, 1 number, and 1 symbol",
		name, MinPasswordLen)

	return func(_ context.Context, req *Request, out map[string]any) (*FieldError, error) {
		raw, exists := req.Body[name]
		if !exists || raw == nil {
			return passwordError(name, message), nil
		}

		s, ok := raw.(string)
		if !ok {
			return passwordError(name, message), nil
		}

		s = strings.TrimSpace(s)
		if err := CheckPasswordComposition(s); err != nil {
			return passwordError(name, message), nil
		}

		out[name] = s
		return nil, nil
	}
}

// RepeatPassword проверяет совпадение пароля и его повтора.
// Значение повтора в очищенное тело не попадает.
func RepeatPassword(repeatName, passwordName string) Rule {
	return func(_ context.Context, req *Request, _ map[string]any) (*FieldError, error) {
		repeat, _ := req.Body[repeatName].(string)
		password, _ := req.Body[passwordName].(string)

		if strings.TrimSpace(repeat) != strings.TrimSpace(password) {
			return passwordError(repeatName,
				fmt.Sprintf("%s and %s doesn't match", passwordName, repeatName)), nil
		}

		return nil, nil
	}
}

// CheckPasswordComposition проверяет требования к составу пароля.
// Выделено отдельно для переиспользования вне HTTP конвейера (blogadmin CLI).
func CheckPasswordComposition(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		default:
			return fmt.Errorf("password contains a character outside the allowed set")
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return fmt.Errorf("password must contain an uppercase letter, a lowercase letter, a number, and a symbol")
	}

	return nil
}

// lengthMessage формулирует нарушение границ длины строкового поля
func lengthMessage(field string, minLen, maxLen int) string {
	switch {
	case minLen > 0 && maxLen > 0:
		return fmt.Sprintf("%s should be between %d and %d characters", field, minLen, maxLen)
	case maxLen > 0:
		return fmt.Sprintf("%s should be at most %d characters", field, maxLen)
	default:
		return fmt.Sprintf("%s should be at least %d characters", field, minLen)
	}
}

func bodyError(field, message, value string) *FieldError {
	return &FieldError{Field: field, Message: message, Location: "body", Value: value}
}

// passwordError не включает исходное значение, чтобы пароль не попадал в ответы и логи
func passwordError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Location: "body"}
}
