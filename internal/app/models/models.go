package models

// PasteRequest представляет тело запроса на создание пасты.
// Необязательные поля не попадают в JSON, если они не заданы.
type PasteRequest struct {
	Content    string `json:"content"`
	TTLSeconds *int   `json:"ttl_seconds,omitempty"`
	MaxViews   *int   `json:"max_views,omitempty"`
}

// PasteCreationResult представляет ответ бэкенда на создание пасты
type PasteCreationResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PasteView представляет пасту, полученную по идентификатору.
// RemainingViews и ExpiresAt равны nil, если у пасты нет соответствующего ограничения.
type PasteView struct {
	Content        string  `json:"content"`
	RemainingViews *int    `json:"remaining_views"`
	ExpiresAt      *string `json:"expires_at"`
}

// ErrorResponse содержит необязательное сообщение об ошибке от бэкенда
type ErrorResponse struct {
	Message string `json:"message"`
}

// Stats используется для ответа внутренней ручки статистики
type Stats struct {
	Sessions      int   `json:"sessions"`
	PastesCreated int64 `json:"pastes_created"`
	PastesViewed  int64 `json:"pastes_viewed"`
}
