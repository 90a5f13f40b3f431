package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/blogapi/internal/crypto"
	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/apierr"
	"github.com/iudanet/blogapi/internal/server/jwt"
	"github.com/iudanet/blogapi/internal/server/storage"
	"github.com/iudanet/blogapi/internal/validation"
	"github.com/iudanet/blogapi/pkg/api"
)

// RefreshCookieName имя http-only cookie с refresh токеном
const RefreshCookieName = "refresh_token"

// AuthHandler обрабатывает запросы регистрации и аутентификации
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	tokens *jwt.Service
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

// Signup обрабатывает POST /auth/signup
// Регистрация нового пользователя. Тело проходит конвейер валидации,
// все нарушения возвращаются одним списком; поля вне allow-list
// (включая is_admin) отбрасываются.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		return err
	}

	matched, fieldErrs, err := validation.Run(ctx,
		&validation.Request{Body: body},
		validation.String("first_name", validation.StringOpts{Max: 100, Optional: true}),
		validation.String("last_name", validation.StringOpts{Max: 100, Optional: true}),
		validation.Username("username"),
		validation.UniqueUsername("username", h.users.UsernameExists),
		validation.Password("password"),
		validation.RepeatPassword("repeat_password", "password"),
	)
	if err != nil {
		return err
	}
	if fieldErrs != nil {
		return apierr.ValidationFailed(fieldErrs)
	}

	password, _ := matched["password"].(string)
	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	firstName, _ := matched["first_name"].(string)
	lastName, _ := matched["last_name"].(string)
	username, _ := matched["username"].(string)

	user := &models.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      false, // админы создаются только через blogadmin CLI
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			// гонка между pre-check правилом и insert-ом
			return apierr.ValidationFailed(validation.Errors{{
				Field:    "username",
				Message:  "username already in use",
				Location: "body",
			}})
		}
		return err
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	writeJSON(h.logger, w, api.SignupResponse{
		UserID:  user.ID,
		Message: "User registered successfully",
	}, http.StatusCreated)
	return nil
}

// Login обрабатывает POST /auth/login
// На успехе возвращает access token в теле и refresh token
// в http-only cookie. Причина отказа клиенту не детализируется.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apierr.BadRequest("invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return apierr.BadRequest("username and password are required")
	}

	user, err := h.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apierr.Unauthorized("invalid credentials")
		}
		return err
	}

	if err := crypto.CheckPassword(req.Password, user.PasswordHash); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", user.Username))
		return apierr.Unauthorized("invalid credentials")
	}

	if err := h.issueTokens(w, user); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))
	return nil
}

// Refresh обрабатывает POST /auth/refresh-token
// Пользователь уже проверен RequireRefresh middleware по cookie.
// Выпускает новый access token и ротирует refresh cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	user, ok := GetUser(r.Context())
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	if err := h.issueTokens(w, user); err != nil {
		return err
	}

	h.logger.InfoContext(r.Context(), "tokens refreshed successfully", slog.String("user_id", user.ID))
	return nil
}

// issueTokens выпускает пару токенов: access в теле ответа,
// refresh в http-only cookie
func (h *AuthHandler) issueTokens(w http.ResponseWriter, user *models.User) error {
	accessToken, expiresIn, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		return err
	}

	refreshToken, expiresAt, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     "/auth/refresh-token",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(h.logger, w, api.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, http.StatusOK)
	return nil
}
