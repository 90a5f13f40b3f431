package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that user with this username already exists
	// (username uniqueness is case-insensitive)
	ErrUsernameTaken = errors.New("username already in use")

	// ErrArticleNotFound indicates that article was not found in storage
	ErrArticleNotFound = errors.New("article not found")

	// ErrCommentNotFound indicates that comment was not found in storage
	ErrCommentNotFound = errors.New("comment not found")
)
