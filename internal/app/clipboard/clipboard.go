// Package clipboard описывает копирование ссылки в буфер обмена пользователя.
// Копирование всегда выполняется по принципу best-effort: вызывающая сторона
// не должна считать неудачу копирования ошибкой основной операции.
package clipboard

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnavailable возвращается, если буфер обмена недоступен
var ErrUnavailable = errors.New("clipboard unavailable")

// ScriptingField — скрытое поле формы, которое скрипт страницы выставляет в "1"
const ScriptingField = "js"

// Clipboard копирует текст в буфер обмена
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// Func позволяет использовать функцию как Clipboard
type Func func(ctx context.Context, text string) error

// Copy вызывает f(ctx, text)
func (f Func) Copy(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Page передаёт текст в отрисованную страницу, скрипт которой выполняет
// navigator.clipboard.writeText. Без поддержки скриптов в браузере
// копирование невозможно.
type Page struct {
	scripting bool
	pending   string
}

// NewPage создаёт Page для запроса r
func NewPage(r *http.Request) *Page {
	return &Page{scripting: r.FormValue(ScriptingField) == "1"}
}

// Copy запоминает текст для страницы
func (p *Page) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.scripting {
		return ErrUnavailable
	}
	p.pending = text
	return nil
}

// Pending возвращает текст, который страница должна скопировать
func (p *Page) Pending() string {
	return p.pending
}
