package testutils

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/issafronov/pastelite/internal/app/contextkeys"
)

// WithTestSession кладёт идентификатор сессии в контекст запроса
func WithTestSession(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), contextkeys.SessionIDKey, sessionID)
	return r.WithContext(ctx)
}

// WithURLParam подставляет параметр маршрута chi без роутера
func WithURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}
