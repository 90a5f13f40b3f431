package storage

import (
	"context"

	"github.com/iudanet/blogapi/internal/models"
)

// CommentStorage defines interface for comment persistence
type CommentStorage interface {
	// CreateComment creates a new comment; the owner reference is immutable afterwards
	CreateComment(ctx context.Context, comment *models.Comment) error

	// GetCommentByID retrieves a comment
	// Returns ErrCommentNotFound if comment doesn't exist
	GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error)

	// ListCommentsByArticle returns a page of an article's comments with owners populated
	ListCommentsByArticle(ctx context.Context, articleID string, opts ListOptions) ([]*models.Comment, error)

	// CountCommentsByArticle returns the number of comments on an article
	CountCommentsByArticle(ctx context.Context, articleID string) (int, error)

	// UpdateCommentContent replaces the comment content
	// Returns ErrCommentNotFound if comment doesn't exist
	UpdateCommentContent(ctx context.Context, commentID, content string) error

	// DeleteComment deletes a comment
	// Returns ErrCommentNotFound if nothing was removed
	DeleteComment(ctx context.Context, commentID string) error
}
