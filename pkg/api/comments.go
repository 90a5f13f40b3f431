package api

import "time"

// Comment представляет комментарий в ответах API
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ArticleID string    `json:"article_id"`
	User      *UserRef  `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentList представляет конверт постраничного списка комментариев
type CommentList struct {
	Limit       int       `json:"limit"`
	TotalItems  int       `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	Items       []Comment `json:"items"`
}
