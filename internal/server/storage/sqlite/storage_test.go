package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blogapi/internal/models"
)

// setupTestStorage создает in-memory хранилище с прогнанными миграциями
func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	return s, func() { s.Close() }
}

// createTestUser вставляет пользователя и возвращает его
func createTestUser(t *testing.T, s *Storage, username string, isAdmin bool) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		PasswordHash: "$2a$10$fakehash",
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))

	return user
}

// createTestUserModel собирает модель пользователя без вставки в базу
func createTestUserModel(username string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           uuid.New().String(),
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// createTestArticle вставляет статью и возвращает ее
func createTestArticle(t *testing.T, s *Storage, owner *models.User, title string, published bool) *models.Article {
	t.Helper()

	now := time.Now()
	article := &models.Article{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     "content of " + title,
		IsPublished: published,
		UserID:      owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateArticle(context.Background(), article))

	return article
}

// createTestComment вставляет комментарий и возвращает его
func createTestComment(t *testing.T, s *Storage, owner *models.User, article *models.Article, content string) *models.Comment {
	t.Helper()

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		UserID:    owner.ID,
		ArticleID: article.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateComment(context.Background(), comment))

	return comment
}
