package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/repository"
)

func TestService_JWTRoundTrip(t *testing.T) {
	svc, _, _ := newTestService()

	sess := models.Session{
		UserID: "user1",
		VisitTokens: map[string]string{
			"abc123": "token-1",
			"def456": "token-2",
		},
	}

	token, err := svc.GenerateJWT(sess, time.Hour)
	assert.NoError(t, err, "GenerateJWT should not return error")
	assert.NotEmpty(t, token)

	parsed, err := svc.ParseJWT(token)
	assert.NoError(t, err, "ParseJWT should not return error")
	assert.Equal(t, sess.UserID, parsed.UserID)
	assert.Equal(t, sess.VisitTokens, parsed.VisitTokens)
}

func TestService_ParseJWT_Invalid(t *testing.T) {
	svc, _, _ := newTestService()

	// Тест 1: Мусор вместо токена
	_, err := svc.ParseJWT("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Тест 2: Токен с чужим секретом
	other := NewService(repository.NewMemoryURLRepository(), repository.NewMemoryUserRepository(), "http://localhost:8080", "other_secret")
	token, err := other.GenerateJWT(models.Session{UserID: "user1"}, time.Hour)
	assert.NoError(t, err)
	_, err = svc.ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Тест 3: Просроченный токен
	token, err = svc.GenerateJWT(models.Session{UserID: "user1"}, -time.Minute)
	assert.NoError(t, err)
	_, err = svc.ParseJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_GenerateJWT_AnonymousSession(t *testing.T) {
	svc, _, _ := newTestService()

	token, err := svc.GenerateJWT(models.Session{VisitTokens: map[string]string{"abc123": "token-1"}}, time.Hour)
	assert.NoError(t, err)

	parsed, err := svc.ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "", parsed.UserID, "Anonymous session keeps empty user ID")
	assert.Equal(t, "token-1", parsed.VisitTokens["abc123"])
}
