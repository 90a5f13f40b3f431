// Package api содержит wire-типы HTTP API.
package api

// SignupRequest представляет запрос на регистрацию нового пользователя.
// Тело проходит через конвейер валидации, поля вне allow-list отбрасываются.
type SignupRequest struct {
	FirstName      string `json:"first_name,omitempty"` // имя (опционально)
	LastName       string `json:"last_name,omitempty"`  // фамилия (опционально)
	Username       string `json:"username"`             // уникальный username
	Password       string `json:"password"`             // пароль
	RepeatPassword string `json:"repeat_password"`      // повтор пароля
}

// SignupResponse представляет ответ на успешную регистрацию
type SignupResponse struct {
	UserID  string `json:"user_id"` // UUID пользователя
	Message string `json:"message"` // сообщение об успешной регистрации
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с access token.
// Refresh token выдается отдельно в http-only cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}
