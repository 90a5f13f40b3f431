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

// commentSortColumns whitelist колонок сортировки списка комментариев
var commentSortColumns = map[string]string{
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
}

// CreateComment creates a new comment
func (s *Storage) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, content, user_id, article_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.Content,
		comment.UserID,
		comment.ArticleID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// GetCommentByID retrieves a comment
func (s *Storage) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	query := `
		SELECT id, content, user_id, article_id, created_at, updated_at
		FROM comments
		WHERE id = ?
	`

	comment := &models.Comment{}

	err := s.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.Content,
		&comment.UserID,
		&comment.ArticleID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListCommentsByArticle returns a page of an article's comments with owners populated
func (s *Storage) ListCommentsByArticle(ctx context.Context, articleID string, opts storage.ListOptions) ([]*models.Comment, error) {
	orderBy := orderByClause(filterSort(opts.Sort, commentSortColumns), "c.created_at DESC")

	query := fmt.Sprintf(`
		SELECT c.id, c.content, c.user_id, c.article_id, c.created_at, c.updated_at,
		       u.id, u.first_name, u.last_name, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.article_id = ?
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, orderBy)

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, articleID, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{Owner: &models.User{}}
		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.UserID,
			&comment.ArticleID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Owner.ID,
			&comment.Owner.FirstName,
			&comment.Owner.LastName,
			&comment.Owner.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// CountCommentsByArticle returns the number of comments on an article
func (s *Storage) CountCommentsByArticle(ctx context.Context, articleID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM comments WHERE article_id = ?`
	if err := s.db.QueryRowContext(ctx, query, articleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return count, nil
}

// UpdateCommentContent replaces the comment content.
// Владелец и ссылка на статью неизменяемы.
func (s *Storage) UpdateCommentContent(ctx context.Context, commentID, content string) error {
	query := `UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, content, time.Now(), commentID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCommentNotFound
	}

	return nil
}

// DeleteComment deletes a comment by ID
func (s *Storage) DeleteComment(ctx context.Context, commentID string) error {
	query := `DELETE FROM comments WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCommentNotFound
	}

	return nil
}
