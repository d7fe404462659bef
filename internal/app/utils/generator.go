package utils

import (
	"crypto/rand"
	"math/big"

	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/middleware/logger"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CreateShortKey возвращает случайную строку длины n, используется для идентификаторов сессий
func CreateShortKey(n int) string {
	result := make([]byte, n)
	limit := big.NewInt(int64(len(charset)))

	for i := range result {
		num, err := rand.Int(rand.Reader, limit)
		if err != nil {
			logger.Log.Error("crypto/rand failed", zap.Error(err))
			result[i] = charset[0]
			continue
		}
		result[i] = charset[num.Int64()]
	}
	return string(result)
}
