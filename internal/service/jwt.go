package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/tempizhere/gotiny/internal/models"
)

// ErrInvalidToken возвращается при разборе повреждённого или чужого JWT
var ErrInvalidToken = errors.New("invalid token")

// sessionClaims переносит сеанс в JWT: идентификатор пользователя и
// токены посещений по коротким ID
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID      string            `json:"user_id,omitempty"`
	VisitTokens map[string]string `json:"visit_tokens,omitempty"`
}

// GenerateJWT выпускает подписанный JWT с содержимым сеанса
func (s *Service) GenerateJWT(sess models.Session, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:      sess.UserID,
		VisitTokens: sess.VisitTokens,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseJWT разбирает JWT и восстанавливает сеанс
func (s *Service) ParseJWT(tokenString string) (models.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, ErrInvalidToken
	}
	return models.Session{
		UserID:      claims.UserID,
		VisitTokens: claims.VisitTokens,
	}, nil
}
