package api

import "time"

// UserRef представляет владельца статьи или комментария в ответах списков
type UserRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Article представляет статью в ответах API.
// Состав полей зависит от роли запрашивающего: не-админ в списках
// видит только заголовок и владельца, админ — всё кроме содержимого.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	IsPublished *bool      `json:"is_published,omitempty"`
	User        *UserRef   `json:"user,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ArticleList представляет конверт постраничного списка статей
type ArticleList struct {
	Limit       int       `json:"limit"`
	TotalItems  int       `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	Items       []Article `json:"items"`
}

// CreatedResponse представляет ответ на создание ресурса
type CreatedResponse struct {
	ID string `json:"id"` // UUID созданного ресурса
}
