package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims представляет набор данных сессии, встраиваемых в JWT-токен
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
}

// SessionTTL — время жизни токена сессии
const SessionTTL = time.Hour * 24

// ErrInvalidToken возвращается для токена с неверной подписью или без сессии
var ErrInvalidToken = errors.New("invalid session token")

// GenerateJWT создает JWT-токен для указанной сессии
func GenerateJWT(sessionID, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseJWT проверяет токен и возвращает идентификатор сессии.
// Для истекшего токена возвращается ошибка, совместимая с jwt.ErrTokenExpired.
func ParseJWT(tokenString, secret string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}
