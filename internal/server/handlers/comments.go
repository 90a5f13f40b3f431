package handlers

import (
	"context"
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

// defaultCommentLimit лимит страницы комментариев по умолчанию
const defaultCommentLimit = 5

// CommentHandler обрабатывает CRUD запросы по комментариям статьи
type CommentHandler struct {
	logger   *slog.Logger
	comments storage.CommentStorage
	articles storage.ArticleStorage
}

// NewCommentHandler создает новый handler для комментариев
func NewCommentHandler(logger *slog.Logger, comments storage.CommentStorage, articles storage.ArticleStorage) *CommentHandler {
	return &CommentHandler{
		logger:   logger,
		comments: comments,
		articles: articles,
	}
}

// List обрабатывает GET /articles/{articleId}/comments
// Комментарии статьи с пагинацией; владелец каждого комментария
// подтягивается join-ом. Комментарии невидимой статьи — 404.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := validateIDParams(ctx, r, "articleId"); err != nil {
		return err
	}

	articleID := r.PathValue("articleId")
	if err := h.checkArticleVisible(ctx, articleID); err != nil {
		return err
	}

	p := parsePagination(r, defaultCommentLimit)

	items, err := h.comments.ListCommentsByArticle(ctx, articleID, p.listOptions())
	if err != nil {
		return err
	}

	totalItems, err := h.comments.CountCommentsByArticle(ctx, articleID)
	if err != nil {
		return err
	}

	projected := make([]api.Comment, 0, len(items))
	for _, comment := range items {
		projected = append(projected, projectComment(comment))
	}

	writeJSON(h.logger, w, api.CommentList{
		Limit:       p.limit,
		TotalItems:  totalItems,
		TotalPages:  p.totalPages(totalItems),
		CurrentPage: p.currentPage(),
		Items:       projected,
	}, http.StatusOK)
	return nil
}

// Create обрабатывает POST /articles/{articleId}/comments
// Любой аутентифицированный пользователь может комментировать
// видимую ему статью; владельцем становится автор запроса.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) error {
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
		&validation.Request{Body: body, Params: map[string]string{"articleId": r.PathValue("articleId")}},
		validation.ID("articleId"),
		validation.String("content", validation.StringOpts{Min: 1, Max: 1000}),
	)
	if err != nil {
		return err
	}
	if fieldErrs != nil {
		return apierr.ValidationFailed(fieldErrs)
	}

	articleID := r.PathValue("articleId")
	if err := h.checkArticleVisible(ctx, articleID); err != nil {
		return err
	}

	now := time.Now()
	content, _ := matched["content"].(string)

	comment := &models.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		UserID:    user.ID,
		ArticleID: articleID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.comments.CreateComment(ctx, comment); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID),
		slog.String("article_id", articleID),
		slog.String("user_id", user.ID))

	writeJSON(h.logger, w, api.CreatedResponse{ID: comment.ID}, http.StatusCreated)
	return nil
}

// Update обрабатывает PUT /articles/{articleId}/comments/{id}
// Редактировать комментарий может только его владелец или админ;
// владелец и привязка к статье неизменяемы.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		return err
	}

	matched, fieldErrs, err := validation.Run(ctx,
		&validation.Request{Body: body, Params: map[string]string{
			"articleId": r.PathValue("articleId"),
			"id":        r.PathValue("id"),
		}},
		validation.ID("articleId"),
		validation.ID("id"),
		validation.String("content", validation.StringOpts{Min: 1, Max: 1000}),
	)
	if err != nil {
		return err
	}
	if fieldErrs != nil {
		return apierr.ValidationFailed(fieldErrs)
	}

	comment, err := h.getOwnedComment(ctx, r)
	if err != nil {
		return err
	}

	content, _ := matched["content"].(string)
	if err := h.comments.UpdateCommentContent(ctx, comment.ID, content); err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			return apierr.NotFound("comment not found")
		}
		return err
	}

	updated, err := h.comments.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return err
	}
	updated.Owner = comment.Owner

	h.logger.InfoContext(ctx, "comment updated", slog.String("comment_id", comment.ID))

	writeJSON(h.logger, w, projectComment(updated), http.StatusOK)
	return nil
}

// Delete обрабатывает DELETE /articles/{articleId}/comments/{id}
// Удалить комментарий может только его владелец или админ;
// на успехе 204 без тела.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := validateIDParams(ctx, r, "articleId", "id"); err != nil {
		return err
	}

	comment, err := h.getOwnedComment(ctx, r)
	if err != nil {
		return err
	}

	if err := h.comments.DeleteComment(ctx, comment.ID); err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			return apierr.NotFound("comment not found")
		}
		return err
	}

	h.logger.InfoContext(ctx, "comment deleted", slog.String("comment_id", comment.ID))

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// checkArticleVisible проверяет существование статьи и её видимость
// для текущего запрашивающего; невидимая статья дает 404
func (h *CommentHandler) checkArticleVisible(ctx context.Context, articleID string) error {
	article, err := h.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return apierr.NotFound("article not found")
		}
		return err
	}

	if !article.IsPublished && !IsAdmin(ctx) {
		return apierr.NotFound("article not found")
	}

	return nil
}

// getOwnedComment загружает комментарий и проверяет право мутации:
// владелец или админ, иначе 403. Чужая принадлежность к статье — 404.
func (h *CommentHandler) getOwnedComment(ctx context.Context, r *http.Request) (*models.Comment, error) {
	user, ok := GetUser(ctx)
	if !ok {
		return nil, apierr.Unauthorized("authentication required")
	}

	comment, err := h.comments.GetCommentByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			return nil, apierr.NotFound("comment not found")
		}
		return nil, err
	}

	if comment.ArticleID != r.PathValue("articleId") {
		return nil, apierr.NotFound("comment not found")
	}

	if comment.UserID != user.ID && !user.IsAdmin {
		return nil, apierr.Forbidden("only the comment owner or an admin can modify it")
	}

	return comment, nil
}

// projectComment строит представление комментария для ответа API
func projectComment(comment *models.Comment) api.Comment {
	projected := api.Comment{
		ID:        comment.ID,
		Content:   comment.Content,
		ArticleID: comment.ArticleID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	if comment.Owner != nil {
		projected.User = &api.UserRef{
			ID:        comment.Owner.ID,
			FirstName: comment.Owner.FirstName,
			LastName:  comment.Owner.LastName,
			Username:  comment.Owner.Username,
		}
	}

	return projected
}
