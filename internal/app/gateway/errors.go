package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ResponseError — бэкенд ответил кодом вне диапазона 2xx
type ResponseError struct {
	StatusCode int
	// Message — поле message из JSON-тела ответа, если оно есть
	Message string
	Body    []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// NoResponseError — запрос отправлен, но ответ не получен
type NoResponseError struct {
	Err error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// IsNotFound сообщает, что бэкенд ответил 404
func IsNotFound(err error) bool {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsNoResponse сообщает, что бэкенд недоступен
func IsNoResponse(err error) bool {
	var noResp *NoResponseError
	return errors.As(err, &noResp)
}
