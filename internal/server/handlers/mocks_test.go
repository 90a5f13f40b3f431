package handlers

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/storage"
)

// testLogger глушит вывод логов в тестах
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage мок хранилища пользователей на map
type mockUserStorage struct {
	users map[string]*models.User // по ID
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return storage.ErrUsernameTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := m.GetUserByUsername(context.Background(), username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// mockArticleStorage мок хранилища статей на map
type mockArticleStorage struct {
	articles map[string]*models.Article
	order    []string // порядок вставки для детерминированных списков
}

func newMockArticleStorage() *mockArticleStorage {
	return &mockArticleStorage{articles: make(map[string]*models.Article)}
}

func (m *mockArticleStorage) CreateArticle(_ context.Context, article *models.Article) error {
	m.articles[article.ID] = article
	m.order = append(m.order, article.ID)
	return nil
}

func (m *mockArticleStorage) GetArticleByID(_ context.Context, articleID string) (*models.Article, error) {
	article, ok := m.articles[articleID]
	if !ok {
		return nil, storage.ErrArticleNotFound
	}
	return article, nil
}

func (m *mockArticleStorage) matching(filter storage.ArticleFilter) []*models.Article {
	var result []*models.Article
	for _, id := range m.order {
		article := m.articles[id]
		if filter.IsPublished != nil && article.IsPublished != *filter.IsPublished {
			continue
		}
		result = append(result, article)
	}
	return result
}

func (m *mockArticleStorage) ListArticles(_ context.Context, filter storage.ArticleFilter, opts storage.ListOptions) ([]*models.Article, error) {
	matched := m.matching(filter)

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (m *mockArticleStorage) CountArticles(_ context.Context, filter storage.ArticleFilter) (int, error) {
	return len(m.matching(filter)), nil
}

func (m *mockArticleStorage) UpdateArticle(_ context.Context, articleID string, update storage.ArticleUpdate) error {
	article, ok := m.articles[articleID]
	if !ok {
		return storage.ErrArticleNotFound
	}
	if update.Title != nil {
		article.Title = *update.Title
	}
	if update.Content != nil {
		article.Content = *update.Content
	}
	if update.IsPublished != nil {
		article.IsPublished = *update.IsPublished
	}
	article.UpdatedAt = time.Now()
	return nil
}

func (m *mockArticleStorage) DeleteArticle(_ context.Context, articleID string) error {
	if _, ok := m.articles[articleID]; !ok {
		return storage.ErrArticleNotFound
	}
	delete(m.articles, articleID)
	for i, id := range m.order {
		if id == articleID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// mockCommentStorage мок хранилища комментариев на map
type mockCommentStorage struct {
	comments map[string]*models.Comment
	order    []string
}

func newMockCommentStorage() *mockCommentStorage {
	return &mockCommentStorage{comments: make(map[string]*models.Comment)}
}

func (m *mockCommentStorage) CreateComment(_ context.Context, comment *models.Comment) error {
	m.comments[comment.ID] = comment
	m.order = append(m.order, comment.ID)
	return nil
}

func (m *mockCommentStorage) GetCommentByID(_ context.Context, commentID string) (*models.Comment, error) {
	comment, ok := m.comments[commentID]
	if !ok {
		return nil, storage.ErrCommentNotFound
	}
	return comment, nil
}

func (m *mockCommentStorage) ListCommentsByArticle(_ context.Context, articleID string, opts storage.ListOptions) ([]*models.Comment, error) {
	var matched []*models.Comment
	for _, id := range m.order {
		comment := m.comments[id]
		if comment.ArticleID == articleID {
			matched = append(matched, comment)
		}
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (m *mockCommentStorage) CountCommentsByArticle(_ context.Context, articleID string) (int, error) {
	count := 0
	for _, comment := range m.comments {
		if comment.ArticleID == articleID {
			count++
		}
	}
	return count, nil
}

func (m *mockCommentStorage) UpdateCommentContent(_ context.Context, commentID, content string) error {
	comment, ok := m.comments[commentID]
	if !ok {
		return storage.ErrCommentNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return nil
}

func (m *mockCommentStorage) DeleteComment(_ context.Context, commentID string) error {
	if _, ok := m.comments[commentID]; !ok {
		return storage.ErrCommentNotFound
	}
	delete(m.comments, commentID)
	for i, id := range m.order {
		if id == commentID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// newTestUser собирает пользователя для тестов обработчиков
func newTestUser(username string, isAdmin bool) *models.User {
	now := time.Now()
	return &models.User{
		ID:        uuid.New().String(),
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newTestArticle собирает статью для тестов обработчиков
func newTestArticle(owner *models.User, title string, published bool) *models.Article {
	now := time.Now()
	return &models.Article{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     "content of " + title,
		IsPublished: published,
		UserID:      owner.ID,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// newTestComment собирает комментарий для тестов обработчиков
func newTestComment(owner *models.User, article *models.Article, content string) *models.Comment {
	now := time.Now()
	return &models.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		UserID:    owner.ID,
		ArticleID: article.ID,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
