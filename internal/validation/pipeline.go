// Package validation реализует декларативный конвейер валидации входных данных.
// Правила накапливают ошибки по полям вместо немедленного прерывания,
// а результатом успешного прогона является allow-list: в очищенное тело
// попадают только поля, покрытые объявленными правилами.
package validation

import "context"

// FieldError описывает одно нарушение правила валидации
type FieldError struct {
	Field    string `json:"field"`           // имя поля
	Message  string `json:"message"`         // описание нарушения
	Location string `json:"location"`        // body или params
	Value    string `json:"value,omitempty"` // исходное значение (не заполняется для паролей)
}

// Errors список нарушений; все нарушения запроса возвращаются вместе
type Errors []FieldError

// Request входные данные одного HTTP запроса
type Request struct {
	Body   map[string]any    // декодированное JSON тело
	Params map[string]string // path-параметры
}

// Rule проверяет одно поле запроса.
// Прошедшее проверку значение записывается в out (allow-list).
// Вторая ошибка — внутренняя (например, недоступность хранилища)
// и не является ошибкой валидации.
type Rule func(ctx context.Context, req *Request, out map[string]any) (*FieldError, error)

// Run прогоняет все правила и возвращает очищенное тело запроса.
// Поля, не покрытые ни одним правилом, отбрасываются: клиент не может
// протащить в хранилище is_admin или ссылки на владельца.
func Run(ctx context.Context, req *Request, rules ...Rule) (map[string]any, Errors, error) {
	out := make(map[string]any)

	var errs Errors
	for _, rule := range rules {
		fieldErr, err := rule(ctx, req, out)
		if err != nil {
			return nil, nil, err
		}
		if fieldErr != nil {
			errs = append(errs, *fieldErr)
		}
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	return out, nil, nil
}
