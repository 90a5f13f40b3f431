package handlers

import (
	"context"

	"github.com/iudanet/blogapi/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

// UserKey ключ для хранения аутентифицированного пользователя в контексте
const UserKey contextKey = "user"

// WithUser кладет пользователя в контекст запроса (используется auth middleware)
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser извлекает пользователя из контекста запроса.
// Возвращает false для анонимных запросов.
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// IsAdmin сообщает, аутентифицирован ли запрос администратором
func IsAdmin(ctx context.Context) bool {
	user, ok := GetUser(ctx)
	return ok && user.IsAdmin
}
