package contextkeys

type contextKey string

const (
	// SessionIDKey используется для хранения идентификатора сессии браузера в контексте запроса.
	SessionIDKey contextKey = "SessionID"
)
