package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/app/contextkeys"
	"github.com/issafronov/pastelite/internal/app/security"
	"github.com/issafronov/pastelite/internal/app/utils"
	"github.com/issafronov/pastelite/internal/middleware/logger"
)

// CookieName — имя cookie с токеном сессии
const CookieName = "PASTELITE_SESSION"

const sessionIDLength = 24

// SessionMiddleware — middleware, привязывающее запрос к сессии браузера через подписанный JWT cookie.
// Для запроса без cookie или с недействительным токеном заводится новая сессия.
func SessionMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessionFromCookie(r, secret)
			if !ok {
				sessionID = utils.CreateShortKey(sessionIDLength)
				signed, err := security.GenerateJWT(sessionID, secret)
				if err != nil {
					logger.Log.Error("SessionMiddleware: error generating JWT token", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    signed,
					Path:     "/",
					Expires:  time.Now().Add(security.SessionTTL),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), contextkeys.SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// SessionID возвращает идентификатор сессии из контекста запроса
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextkeys.SessionIDKey).(string)
	return id, ok && id != ""
}

func sessionFromCookie(r *http.Request, secret string) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		logger.Log.Debug("SessionMiddleware: no session cookie")
		return "", false
	}
	sessionID, err := security.ParseJWT(cookie.Value, secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Log.Debug("SessionMiddleware: token expired")
		} else {
			logger.Log.Debug("SessionMiddleware: invalid session token", zap.Error(err))
		}
		return "", false
	}
	return sessionID, true
}
