package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/storage"
)

// articleSortColumns whitelist колонок сортировки списка статей
var articleSortColumns = map[string]string{
	"created_at": "a.created_at",
	"updated_at": "a.updated_at",
	"title":      "a.title",
}

// CreateArticle creates a new article
func (s *Storage) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, title, content, is_published, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.IsPublished,
		article.UserID,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// GetArticleByID retrieves an article with its owner populated
func (s *Storage) GetArticleByID(ctx context.Context, articleID string) (*models.Article, error) {
	query := `
		SELECT a.id, a.title, a.content, a.is_published, a.user_id, a.created_at, a.updated_at,
		       u.id, u.first_name, u.last_name, u.username
		FROM articles a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = ?
	`

	article := &models.Article{Owner: &models.User{}}

	err := s.db.QueryRowContext(ctx, query, articleID).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.IsPublished,
		&article.UserID,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.Owner.ID,
		&article.Owner.FirstName,
		&article.Owner.LastName,
		&article.Owner.Username,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

// ListArticles returns a page of articles with owners populated
func (s *Storage) ListArticles(ctx context.Context, filter storage.ArticleFilter, opts storage.ListOptions) ([]*models.Article, error) {
	where, args := articleWhere(filter)

	orderBy := orderByClause(filterSort(opts.Sort, articleSortColumns), "a.created_at DESC")

	query := fmt.Sprintf(`
		SELECT a.id, a.title, a.content, a.is_published, a.user_id, a.created_at, a.updated_at,
		       u.id, u.first_name, u.last_name, u.username
		FROM articles a
		JOIN users u ON u.id = a.user_id
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, where, orderBy)

	// LIMIT -1 в sqlite снимает ограничение (limit=0 — вернуть всё)
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article := &models.Article{Owner: &models.User{}}
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.IsPublished,
			&article.UserID,
			&article.CreatedAt,
			&article.UpdatedAt,
			&article.Owner.ID,
			&article.Owner.FirstName,
			&article.Owner.LastName,
			&article.Owner.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

// CountArticles returns the number of articles matching the filter
func (s *Storage) CountArticles(ctx context.Context, filter storage.ArticleFilter) (int, error) {
	where, args := articleWhere(filter)

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM articles a %s`, where)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}

// UpdateArticle applies a partial update with the validated fields only
func (s *Storage) UpdateArticle(ctx context.Context, articleID string, update storage.ArticleUpdate) error {
	set := ""
	var args []any

	appendSet := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		set += column + " = ?"
		args = append(args, value)
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Content != nil {
		appendSet("content", *update.Content)
	}
	if update.IsPublished != nil {
		appendSet("is_published", *update.IsPublished)
	}

	if set == "" {
		// нечего обновлять, но существование статьи все равно проверяем
		_, err := s.GetArticleByID(ctx, articleID)
		return err
	}

	appendSet("updated_at", time.Now())
	args = append(args, articleID)

	query := fmt.Sprintf(`UPDATE articles SET %s WHERE id = ?`, set)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrArticleNotFound
	}

	return nil
}

// DeleteArticle deletes an article; comments go away via FK cascade
func (s *Storage) DeleteArticle(ctx context.Context, articleID string) error {
	query := `DELETE FROM articles WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrArticleNotFound
	}

	return nil
}

func articleWhere(filter storage.ArticleFilter) (string, []any) {
	if filter.IsPublished == nil {
		return "", nil
	}
	return "WHERE a.is_published = ?", []any{*filter.IsPublished}
}
