package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/apierr"
	"github.com/iudanet/blogapi/internal/server/storage"
	"github.com/iudanet/blogapi/internal/validation"
	"github.com/iudanet/blogapi/pkg/api"
)

// ArticleHandler обрабатывает CRUD запросы по статьям
type ArticleHandler struct {
	logger   *slog.Logger
	articles storage.ArticleStorage
}

// NewArticleHandler создает новый handler для статей
func NewArticleHandler(logger *slog.Logger, articles storage.ArticleStorage) *ArticleHandler {
	return &ArticleHandler{
		logger:   logger,
		articles: articles,
	}
}

// List обрабатывает GET /articles и GET /admin/articles
// Листинг с пагинацией и visibility gating: не-админ видит только
// опубликованные статьи и усеченную проекцию полей.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	isAdmin := IsAdmin(ctx)

	// limit=0 по умолчанию: весь список одной страницей
	p := parsePagination(r, 0)

	// единственное фильтруемое поле из query — is_published
	var filter storage.ArticleFilter
	if raw := r.URL.Query().Get("is_published"); raw != "" {
		published := raw == "true"
		filter.IsPublished = &published
	}

	// не-админам неопубликованные статьи невидимы всегда
	if !isAdmin {
		published := true
		filter.IsPublished = &published
	}

	items, err := h.articles.ListArticles(ctx, filter, p.listOptions())
	if err != nil {
		return err
	}

	totalItems, err := h.articles.CountArticles(ctx, filter)
	if err != nil {
		return err
	}

	projected := make([]api.Article, 0, len(items))
	for _, article := range items {
		projected = append(projected, projectArticle(article, isAdmin, false))
	}

	writeJSON(h.logger, w, api.ArticleList{
		Limit:       p.limit,
		TotalItems:  totalItems,
		TotalPages:  p.totalPages(totalItems),
		CurrentPage: p.currentPage(),
		Items:       projected,
	}, http.StatusOK)
	return nil
}

// GetByID обрабатывает GET /articles/{id} и GET /admin/articles/{id}
// Неопубликованная статья для не-админа неотличима от отсутствующей (404).
func (h *ArticleHandler) GetByID(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := validateIDParams(ctx, r, "id"); err != nil {
		return err
	}

	article, err := h.articles.GetArticleByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return apierr.NotFound("article not found")
		}
		return err
	}

	isAdmin := IsAdmin(ctx)
	if !article.IsPublished && !isAdmin {
		return apierr.NotFound("article not found")
	}

	writeJSON(h.logger, w, projectArticle(article, isAdmin, true), http.StatusOK)
	return nil
}

// Create обрабатывает POST /admin/articles
// Маршрут закрыт RequireAuth + RequireAdmin; владельцем становится
// аутентифицированный пользователь, тело фильтруется по allow-list.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	user, ok := GetUser(ctx)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	body, err := decodeBody(r)
	if err != nil {
		return err
	}

	matched, fieldErrs, err := validation.Run(ctx,
		&validation.Request{Body: body},
		validation.String("title", validation.StringOpts{Min: 1, Max: 200}),
		validation.RawString("content", false),
		validation.Boolean("is_published"),
	)
	if err != nil {
		return err
	}
	if fieldErrs != nil {
		return apierr.ValidationFailed(fieldErrs)
	}

	now := time.Now()
	title, _ := matched["title"].(string)
	content, _ := matched["content"].(string)
	isPublished, _ := matched["is_published"].(bool)

	article := &models.Article{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     content,
		IsPublished: isPublished,
		UserID:      user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.articles.CreateArticle(ctx, article); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "article created",
		slog.String("article_id", article.ID),
		slog.String("user_id", user.ID))

	writeJSON(h.logger, w, api.CreatedResponse{ID: article.ID}, http.StatusCreated)
	return nil
}

// Update обрабатывает PUT /admin/articles/{id}
// Применяет только валидированные поля; неизвестный id дает 404.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		return err
	}

	matched, fieldErrs, err := validation.Run(ctx,
		&validation.Request{Body: body, Params: map[string]string{"id": r.PathValue("id")}},
		validation.ID("id"),
		validation.String("title", validation.StringOpts{Min: 1, Max: 200, Optional: true}),
		validation.RawString("content", true),
		validation.Boolean("is_published"),
	)
	if err != nil {
		return err
	}
	if fieldErrs != nil {
		return apierr.ValidationFailed(fieldErrs)
	}

	var update storage.ArticleUpdate
	if title, ok := matched["title"].(string); ok {
		update.Title = &title
	}
	if content, ok := matched["content"].(string); ok {
		update.Content = &content
	}
	if isPublished, ok := matched["is_published"].(bool); ok {
		update.IsPublished = &isPublished
	}

	articleID := r.PathValue("id")
	if err := h.articles.UpdateArticle(ctx, articleID, update); err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return apierr.NotFound("article not found")
		}
		return err
	}

	article, err := h.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "article updated", slog.String("article_id", articleID))

	writeJSON(h.logger, w, projectArticle(article, true, true), http.StatusOK)
	return nil
}

// Delete обрабатывает DELETE /admin/articles/{id}
// На успехе отвечает 204 без тела; комментарии статьи удаляются каскадом.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := validateIDParams(ctx, r, "id"); err != nil {
		return err
	}

	if err := h.articles.DeleteArticle(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return apierr.NotFound("article not found")
		}
		return err
	}

	h.logger.InfoContext(ctx, "article deleted", slog.String("article_id", r.PathValue("id")))

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// projectArticle строит проекцию статьи по роли запрашивающего.
// Список для не-админа: id, заголовок, владелец, дата создания.
// Список для админа: всё кроме содержимого. Одиночная выборка
// добавляет содержимое; is_published виден только админу.
func projectArticle(article *models.Article, isAdmin, single bool) api.Article {
	projected := api.Article{
		ID:        article.ID,
		Title:     article.Title,
		CreatedAt: article.CreatedAt,
	}

	if article.Owner != nil {
		projected.User = &api.UserRef{
			ID:        article.Owner.ID,
			FirstName: article.Owner.FirstName,
			LastName:  article.Owner.LastName,
			Username:  article.Owner.Username,
		}
	}

	if single {
		projected.Content = article.Content
	}

	if isAdmin {
		isPublished := article.IsPublished
		projected.IsPublished = &isPublished
		updatedAt := article.UpdatedAt
		projected.UpdatedAt = &updatedAt
	}

	return projected
}
