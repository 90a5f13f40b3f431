package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/blogapi/internal/server/apierr"
	"github.com/iudanet/blogapi/internal/validation"
)

// APIHandler обработчик, возвращающий ошибку вместо записи её в ResponseWriter.
// Все ошибки стекаются в единую цепочку: нормализация -> лог -> JSON конверт.
type APIHandler func(w http.ResponseWriter, r *http.Request) error

// Handle адаптирует APIHandler к http.HandlerFunc.
// Любая ошибка нормализуется в *apierr.Error, логируется и
// сериализуется в конверт {name, message, errors?}; стек и детали
// внутренних ошибок клиенту не раскрываются.
func Handle(logger *slog.Logger, fn APIHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		apiErr := apierr.From(err)

		logLevel := slog.LevelWarn
		if apiErr.StatusCode >= 500 {
			logLevel = slog.LevelError
		}
		logger.Log(r.Context(), logLevel, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("name", apiErr.Name),
			slog.Int("status", apiErr.StatusCode),
			slog.Any("error", err),
		)

		writeJSON(logger, w, apiErr, apiErr.StatusCode)
	}
}

// writeJSON отправляет JSON ответ
func writeJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// validateIDParams проверяет, что перечисленные path-параметры являются
// корректными UUID; нарушения возвращаются как ValidationFailed
func validateIDParams(ctx context.Context, r *http.Request, names ...string) error {
	params := make(map[string]string, len(names))
	rules := make([]validation.Rule, 0, len(names))
	for _, name := range names {
		params[name] = r.PathValue(name)
		rules = append(rules, validation.ID(name))
	}

	_, fieldErrs, err := validation.Run(ctx, &validation.Request{Params: params}, rules...)
	if err != nil {
		return err
	}
	if fieldErrs != nil {
		return apierr.ValidationFailed(fieldErrs)
	}
	return nil
}

// decodeBody декодирует JSON тело запроса в map для конвейера валидации
func decodeBody(r *http.Request) (map[string]any, error) {
	body := make(map[string]any)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, apierr.BadRequest("invalid request body")
	}
	return body, nil
}
