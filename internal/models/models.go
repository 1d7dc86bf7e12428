// Package models содержит структуры данных сервиса коротких URL.
package models

import "time"

// Visit описывает одно разрешение короткого URL
type Visit struct {
	VisitorID string    `json:"visitor_id,omitempty"`
	Unique    bool      `json:"unique"`
	VisitedAt time.Time `json:"visited_at"`
}

// URL описывает запись короткого URL вместе со статистикой посещений
type URL struct {
	ShortID          string  `json:"short_id"`
	OriginalURL      string  `json:"original_url"`
	UserID           string  `json:"user_id"`
	VisitCount       uint64  `json:"visit_count"`
	UniqueVisitCount uint64  `json:"unique_visit_count"`
	Visits           []Visit `json:"visits,omitempty"`
}

// User описывает зарегистрированного пользователя
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Session описывает сеанс вызывающей стороны: идентификатор пользователя,
// если он аутентифицирован, и токены посещений по коротким ID
type Session struct {
	UserID      string            `json:"user_id,omitempty"`
	VisitTokens map[string]string `json:"visit_tokens,omitempty"`
}

type ShortenRequest struct {
	URL string `json:"url"`
}

type ShortenResponse struct {
	Result string `json:"result"`
}

type UpdateURLRequest struct {
	URL string `json:"url"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ShortURLResponse struct {
	ShortURL         string `json:"short_url"`
	OriginalURL      string `json:"original_url"`
	VisitCount       uint64 `json:"visit_count"`
	UniqueVisitCount uint64 `json:"unique_visit_count"`
}

type StatsResponse struct {
	URLs   int `json:"urls"`
	Users  int `json:"users"`
	Visits int `json:"visits"`
}
