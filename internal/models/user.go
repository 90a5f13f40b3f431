package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string    `json:"id"`         // UUID пользователя
	FirstName    string    `json:"first_name"` // имя
	LastName     string    `json:"last_name"`  // фамилия
	Username     string    `json:"username"`   // уникальный username (case-insensitive)
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, никогда не сериализуется
	IsAdmin      bool      `json:"is_admin"`   // флаг администратора
	CreatedAt    time.Time `json:"created_at"` // время создания
	UpdatedAt    time.Time `json:"updated_at"` // время последнего обновления
}
