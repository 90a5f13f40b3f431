package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/blogapi/internal/server/storage"
)

// pagination разобранные параметры листинга: page, limit, sort
type pagination struct {
	page  int
	limit int
	sort  []storage.SortField
}

// parsePagination разбирает query-параметры листинга.
// Некорректные значения заменяются дефолтами, skip = limit * (page - 1).
// Строка sort разделяется запятыми или точками с запятой,
// префикс "-" означает сортировку по убыванию.
func parsePagination(r *http.Request, defaultLimit int) pagination {
	p := pagination{page: 1, limit: defaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.page = page
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 0 {
			p.limit = limit
		}
	}

	if raw := r.URL.Query().Get("sort"); raw != "" {
		for _, field := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			desc := strings.HasPrefix(field, "-")
			p.sort = append(p.sort, storage.SortField{
				Column: strings.TrimPrefix(field, "-"),
				Desc:   desc,
			})
		}
	}

	return p
}

// listOptions переводит pagination в параметры запроса к хранилищу
func (p pagination) listOptions() storage.ListOptions {
	return storage.ListOptions{
		Limit:  p.limit,
		Offset: p.limit * (p.page - 1),
		Sort:   p.sort,
	}
}

// totalPages вычисляет количество страниц: ceil(totalItems / limit),
// при limit == 0 весь список — одна страница
func (p pagination) totalPages(totalItems int) int {
	if p.limit <= 0 {
		return 1
	}
	return (totalItems + p.limit - 1) / p.limit
}

// currentPage при limit == 0 всегда первая страница
func (p pagination) currentPage() int {
	if p.limit <= 0 {
		return 1
	}
	return p.page
}
