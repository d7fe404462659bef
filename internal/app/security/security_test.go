package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT(t *testing.T) {
	sessionID := "session123"
	tokenStr, err := GenerateJWT(sessionID, "testsecret")

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("testsecret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(*Claims)
	assert.True(t, ok)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseJWT(t *testing.T) {
	valid, err := GenerateJWT("s1", "goodsecret")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		SessionID: "s2",
	}).SignedString([]byte("goodsecret"))
	require.NoError(t, err)

	noSession, err := GenerateJWT("", "goodsecret")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		id, err := ParseJWT(valid, "goodsecret")
		require.NoError(t, err)
		assert.Equal(t, "s1", id)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		_, err := ParseJWT(valid, "wrongsecret")
		assert.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := ParseJWT(valid+"abc", "goodsecret")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := ParseJWT(expired, "goodsecret")
		assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
	})

	t.Run("empty_session", func(t *testing.T) {
		_, err := ParseJWT(noSession, "goodsecret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
