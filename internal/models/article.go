package models

import "time"

// Article представляет статью блога
type Article struct {
	ID          string    `json:"id"`           // UUID статьи
	Title       string    `json:"title"`        // заголовок
	Content     string    `json:"content"`      // содержимое (не экранируется при валидации)
	IsPublished bool      `json:"is_published"` // опубликована ли статья
	UserID      string    `json:"user_id"`      // ID пользователя-владельца
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Owner заполняется join-ом при выборке списков (populate)
	Owner *User `json:"user,omitempty"`
}
