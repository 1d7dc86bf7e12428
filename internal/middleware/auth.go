// Package middleware содержит HTTP middleware: восстановление сеанса,
// логирование, сжатие ответов и проверку доверенных подсетей.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/tempizhere/gotiny/internal/config"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/service"
	"go.uber.org/zap"
)

// sessionCookieName задаёт имя куки с JWT сеанса
const sessionCookieName = "session_token"

// SessionKey для хранения сеанса в контексте
type SessionKey struct{}

// SessionMiddleware восстанавливает сеанс из куки с JWT и кладёт его в контекст.
// Повреждённая или отсутствующая кука даёт анонимный сеанс без токенов посещений.
func SessionMiddleware(svc *service.Service, cfg *config.Config, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess models.Session

			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie != nil {
				sess, err = svc.ParseJWT(cookie.Value)
				if err != nil {
					logger.Warn("Invalid session token", zap.Error(err))
					sess = models.Session{}
				}
			}
			if sess.VisitTokens == nil {
				sess.VisitTokens = make(map[string]string)
			}

			ctx := context.WithValue(r.Context(), SessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession извлекает сеанс из контекста запроса
func GetSession(r *http.Request) (models.Session, bool) {
	sess, ok := r.Context().Value(SessionKey{}).(models.Session)
	return sess, ok
}

// SetSessionCookie выпускает JWT для сеанса и устанавливает куку.
// Вызывается обработчиками после входа, выхода и выдачи токена посещения.
func SetSessionCookie(w http.ResponseWriter, svc *service.Service, cfg *config.Config, sess models.Session) error {
	token, err := svc.GenerateJWT(sess, cfg.CookieTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(cfg.CookieTTL),
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

// ClearSessionCookie сбрасывает куку сеанса
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
	})
}
