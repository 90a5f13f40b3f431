package storage

import (
	"context"

	"github.com/iudanet/blogapi/internal/models"
)

// ArticleUpdate holds the validated fields of a partial article update.
// Nil fields are left untouched.
type ArticleUpdate struct {
	Title       *string
	Content     *string
	IsPublished *bool
}

// ArticleStorage defines interface for article persistence
type ArticleStorage interface {
	// CreateArticle creates a new article
	CreateArticle(ctx context.Context, article *models.Article) error

	// GetArticleByID retrieves an article with its owner populated
	// Returns ErrArticleNotFound if article doesn't exist
	GetArticleByID(ctx context.Context, articleID string) (*models.Article, error)

	// ListArticles returns a page of articles with owners populated
	ListArticles(ctx context.Context, filter ArticleFilter, opts ListOptions) ([]*models.Article, error)

	// CountArticles returns the number of articles matching the filter
	CountArticles(ctx context.Context, filter ArticleFilter) (int, error)

	// UpdateArticle applies a partial update
	// Returns ErrArticleNotFound if article doesn't exist
	UpdateArticle(ctx context.Context, articleID string, update ArticleUpdate) error

	// DeleteArticle deletes an article and, via cascade, its comments
	// Returns ErrArticleNotFound if nothing was removed
	DeleteArticle(ctx context.Context, articleID string) error
}
