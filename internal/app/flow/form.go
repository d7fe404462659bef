package flow

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/issafronov/pastelite/internal/app/apierror"
	"github.com/issafronov/pastelite/internal/app/models"
)

// maxSafeInteger — наибольшее целое, которое бэкенд гарантированно примет как число
const maxSafeInteger int64 = 1<<53 - 1

// Сообщения валидации формы
const (
	MessageEmptyContent = "Content cannot be empty."
	MessageInvalidTTL   = "Time-to-live must be an integer of 1 or greater."
	MessageInvalidViews = "Max views must be an integer of 1 or greater."
)

var errNotPositiveInt = errors.New("not a positive integer")

// Form — значения полей формы создания пасты в том виде, в каком их ввёл пользователь
type Form struct {
	Content    string
	TTLSeconds string
	MaxViews   string
}

// Validate проверяет форму и собирает запрос к бэкенду.
// Срабатывает первое нарушенное правило; пустые необязательные поля в запрос не попадают.
func (f Form) Validate() (models.PasteRequest, error) {
	if strings.TrimSpace(f.Content) == "" {
		return models.PasteRequest{}, apierror.Validation(MessageEmptyContent)
	}

	ttl, err := optionalPositiveInt(f.TTLSeconds)
	if err != nil {
		return models.PasteRequest{}, apierror.Validation(MessageInvalidTTL)
	}

	views, err := optionalPositiveInt(f.MaxViews)
	if err != nil {
		return models.PasteRequest{}, apierror.Validation(MessageInvalidViews)
	}

	return models.PasteRequest{
		Content:    f.Content,
		TTLSeconds: ttl,
		MaxViews:   views,
	}, nil
}

func optionalPositiveInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := parsePositiveInt(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parsePositiveInt принимает и целочисленную запись с точкой или экспонентой ("5.0", "1e3")
func parsePositiveInt(raw string) (int, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 1 || n > maxSafeInteger {
			return 0, errNotPositiveInt
		}
		return int(n), nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotPositiveInt
	}
	if f != math.Trunc(f) || f < 1 || f > float64(maxSafeInteger) {
		return 0, errNotPositiveInt
	}
	return int(f), nil
}
