package models

import "time"

// Comment представляет комментарий к статье.
// Владелец комментария неизменяем после создания.
type Comment struct {
	ID        string    `json:"id"`         // UUID комментария
	Content   string    `json:"content"`    // текст комментария
	UserID    string    `json:"user_id"`    // ID пользователя-владельца
	ArticleID string    `json:"article_id"` // ID родительской статьи
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owner заполняется join-ом при выборке списков (populate)
	Owner *User `json:"user,omitempty"`
}
