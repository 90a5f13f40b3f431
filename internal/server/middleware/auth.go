package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/blogapi/internal/server/apierr"
	"github.com/iudanet/blogapi/internal/server/handlers"
	"github.com/iudanet/blogapi/internal/server/jwt"
	"github.com/iudanet/blogapi/internal/server/storage"
)

// bearerToken извлекает токен из заголовка Authorization ("Bearer <token>")
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// AttachUser создает middleware, опционально прикрепляющее пользователя к запросу.
// Отсутствующий или невалидный токен не является ошибкой: запрос идет дальше
// анонимно. Используется read-эндпоинтами для visibility gating.
func AttachUser(logger *slog.Logger, tokens *jwt.Service, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ValidateAccessToken(tokenString)
			if err != nil {
				logger.Debug("anonymous request: invalid access token", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				logger.Debug("anonymous request: token user not found", slog.String("user_id", claims.UserID))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth создает middleware, требующее валидный access token.
// На успехе прикрепляет пользователя к контексту запроса; хранилище
// никогда не мутируется.
func RequireAuth(logger *slog.Logger, tokens *jwt.Service, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			tokenString, ok := bearerToken(r)
			if !ok {
				return apierr.Unauthorized("missing or malformed Authorization header")
			}

			claims, err := tokens.ValidateAccessToken(tokenString)
			if err != nil {
				return apierr.Unauthorized("invalid or expired access token")
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					return apierr.Unauthorized("user no longer exists")
				}
				return err
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user)))
			return nil
		})
	}
}

// RequireRefresh создает middleware, требующее валидный refresh token
// из http-only cookie. Используется только эндпоинтом обновления токенов.
func RequireRefresh(logger *slog.Logger, tokens *jwt.Service, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			cookie, err := r.Cookie(handlers.RefreshCookieName)
			if err != nil || cookie.Value == "" {
				return apierr.Unauthorized("missing refresh token")
			}

			claims, err := tokens.ValidateRefreshToken(cookie.Value)
			if err != nil {
				return apierr.Unauthorized("invalid or expired refresh token")
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					return apierr.Unauthorized("user no longer exists")
				}
				return err
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user)))
			return nil
		})
	}
}

// RequireAdmin создает middleware, пропускающее только администраторов.
// Должно стоять после RequireAuth в цепочке.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.Handle(logger, func(w http.ResponseWriter, r *http.Request) error {
			user, ok := handlers.GetUser(r.Context())
			if !ok {
				return apierr.Unauthorized("authentication required")
			}
			if !user.IsAdmin {
				return apierr.Forbidden("admin privileges required")
			}

			next.ServeHTTP(w, r)
			return nil
		})
	}
}
