// Package proto содержит определения типов для gRPC сервиса коротких URL
package proto

// URLInfo представляет запись короткого URL со статистикой посещений
type URLInfo struct {
	ShortID          string `json:"short_id"`
	OriginalURL      string `json:"original_url"`
	UserID           string `json:"user_id"`
	VisitCount       uint64 `json:"visit_count"`
	UniqueVisitCount uint64 `json:"unique_visit_count"`
}

// CreateShortURLRequest представляет запрос на создание короткого URL
type CreateShortURLRequest struct {
	OriginalURL string `json:"original_url"`
}

// CreateShortURLResponse представляет ответ с созданным коротким URL
type CreateShortURLResponse struct {
	ShortID  string `json:"short_id"`
	ShortURL string `json:"short_url"`
}

// GetURLRequest представляет запрос записи по короткому ID
type GetURLRequest struct {
	ShortID string `json:"short_id"`
}

// GetURLResponse представляет ответ с записью короткого URL
type GetURLResponse struct {
	URL *URLInfo `json:"url"`
}

// UpdateURLRequest представляет запрос на замену оригинального URL
type UpdateURLRequest struct {
	ShortID     string `json:"short_id"`
	OriginalURL string `json:"original_url"`
}

// UpdateURLResponse представляет ответ с обновлённой записью
type UpdateURLResponse struct {
	URL *URLInfo `json:"url"`
}

// DeleteURLRequest представляет запрос на удаление записи
type DeleteURLRequest struct {
	ShortID string `json:"short_id"`
}

// DeleteURLResponse представляет ответ на удаление записи
type DeleteURLResponse struct{}

// ResolveURLRequest представляет запрос разрешения короткого URL.
// VisitToken содержит ранее выданный токен посещения для этого ID, если он есть.
type ResolveURLRequest struct {
	ShortID    string `json:"short_id"`
	VisitToken string `json:"visit_token"`
}

// ResolveURLResponse представляет ответ с оригинальным URL.
// NewVisitToken возвращается только для первого посещения.
type ResolveURLResponse struct {
	OriginalURL   string `json:"original_url"`
	NewVisitToken string `json:"new_visit_token"`
}

// GetUserURLsRequest представляет запрос списка записей пользователя
type GetUserURLsRequest struct{}

// GetUserURLsResponse представляет ответ со списком записей пользователя
type GetUserURLsResponse struct {
	URLs []*URLInfo `json:"urls"`
}

// RegisterRequest представляет запрос на регистрацию пользователя
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse представляет ответ с данными нового пользователя
type RegisterResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// LoginRequest представляет запрос на вход пользователя
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ с токеном сеанса
type LoginResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// GetStatsRequest представляет запрос статистики сервиса
type GetStatsRequest struct{}

// GetStatsResponse представляет ответ со статистикой сервиса
type GetStatsResponse struct {
	URLs   int64 `json:"urls"`
	Users  int64 `json:"users"`
	Visits int64 `json:"visits"`
}
