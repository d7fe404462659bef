// Package apierror классифицирует ошибки обращения к бэкенду паст
// в один из видов, которые умеет отображать интерфейс.
package apierror

import (
	"errors"
	"fmt"

	"github.com/issafronov/pastelite/internal/app/gateway"
)

// Kind — вид ошибки
type Kind int

const (
	// KindValidation — ошибка, найденная до обращения к сети
	KindValidation Kind = iota + 1
	// KindServer — бэкенд ответил кодом вне 2xx
	KindServer
	// KindOffline — запрос отправлен, ответа нет
	KindOffline
	// KindUnexpected — всё остальное
	KindUnexpected
)

const (
	// OfflineMessage показывается, когда бэкенд недоступен
	OfflineMessage = "Connection Error: Could not connect to the server. Please ensure the backend is running and accessible."
	// UnexpectedMessage используется, когда у ошибки нет собственного текста
	UnexpectedMessage = "An unexpected error occurred."
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindOffline:
		return "offline"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Error — классифицированная ошибка, готовая к отображению
type Error struct {
	Kind Kind
	// Status — HTTP-код ответа бэкенда, только для KindServer
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation создаёт ошибку валидации формы
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Classify сопоставляет ошибку шлюза одному виду. Правила проверяются по порядку:
// ответ с кодом вне 2xx, отсутствие ответа, всё остальное.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var respErr *gateway.ResponseError
	if errors.As(err, &respErr) {
		message := respErr.Message
		if message == "" {
			message = fmt.Sprintf("Server error: %d", respErr.StatusCode)
		}
		return &Error{Kind: KindServer, Status: respErr.StatusCode, Message: message}
	}

	if gateway.IsNoResponse(err) {
		return &Error{Kind: KindOffline, Message: OfflineMessage}
	}

	return &Error{Kind: KindUnexpected, Message: messageOf(err)}
}

// Describe возвращает текст ошибки для страницы просмотра:
// сообщение сервера, затем текст самой ошибки, затем общий текст.
func Describe(err error) string {
	var respErr *gateway.ResponseError
	if errors.As(err, &respErr) && respErr.Message != "" {
		return respErr.Message
	}
	return messageOf(err)
}

func messageOf(err error) string {
	if err == nil || err.Error() == "" {
		return UnexpectedMessage
	}
	return err.Error()
}
