// Package app содержит HTTP-обработчики сервиса коротких URL.
package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/gotiny/internal/config"
	"github.com/tempizhere/gotiny/internal/middleware"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/service"
)

// App содержит хендлеры и зависимости
type App struct {
	svc  *service.Service
	auth *service.AuthService
	cfg  *config.Config
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, auth *service.AuthService, cfg *config.Config) *App {
	return &App{svc: svc, auth: auth, cfg: cfg}
}

// HandleShorten обрабатывает POST-запросы на "/api/urls"
func (a *App) HandleShorten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	sess, ok := middleware.GetSession(r)
	if !ok || sess.UserID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var reqBody models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	url, err := a.svc.CreateShortURL(reqBody.URL, sess.UserID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, models.ShortenResponse{
		Result: a.svc.ShortURL(url.ShortID),
	})
}

// HandleUserURLs обрабатывает GET-запросы на "/api/user/urls"
func (a *App) HandleUserURLs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSession(r)
	if !ok || sess.UserID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	urls, err := a.svc.GetUserURLs(sess.UserID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if len(urls) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]models.ShortURLResponse, len(urls))
	for i, u := range urls {
		resp[i] = models.ShortURLResponse{
			ShortURL:         a.svc.ShortURL(u.ShortID),
			OriginalURL:      u.OriginalURL,
			VisitCount:       u.VisitCount,
			UniqueVisitCount: u.UniqueVisitCount,
		}
	}
	a.writeJSONResponse(w, http.StatusOK, resp)
}

// HandleGetURL обрабатывает GET-запросы на "/api/urls/{id}"
func (a *App) HandleGetURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSession(r)
	if !ok || sess.UserID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	url, err := a.svc.GetURL(id, sess.UserID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, url)
}

// HandleUpdateURL обрабатывает PUT-запросы на "/api/urls/{id}"
func (a *App) HandleUpdateURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	sess, ok := middleware.GetSession(r)
	if !ok || sess.UserID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var reqBody models.UpdateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	url, err := a.svc.UpdateURL(id, sess.UserID, reqBody.URL)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, url)
}

// HandleDeleteURL обрабатывает DELETE-запросы на "/api/urls/{id}"
func (a *App) HandleDeleteURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSession(r)
	if !ok || sess.UserID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := a.svc.DeleteURL(id, sess.UserID); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRedirect обрабатывает GET-запросы на "/{id}": фиксирует посещение
// и перенаправляет на оригинальный URL. Анонимные посещения разрешены.
func (a *App) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing URL ID", http.StatusBadRequest)
		return
	}

	sess, _ := middleware.GetSession(r)
	if sess.VisitTokens == nil {
		sess.VisitTokens = make(map[string]string)
	}

	target, newToken, err := a.svc.Resolve(id, sess)
	if err != nil {
		a.writeError(w, err)
		return
	}

	// Первый визит этого браузера: сохраняем токен посещения в сеансе
	if newToken != "" {
		sess.VisitTokens[id] = newToken
		if err := middleware.SetSessionCookie(w, a.svc, a.cfg, sess); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusTemporaryRedirect)
}

// HandleRegister обрабатывает POST-запросы на "/api/user/register"
func (a *App) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reqBody models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := a.auth.Register(reqBody.Email, reqBody.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}

	// Регистрация сразу открывает сеанс нового пользователя
	sess, _ := middleware.GetSession(r)
	sess.UserID = user.ID
	if err := middleware.SetSessionCookie(w, a.svc, a.cfg, sess); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, models.UserResponse{ID: user.ID, Email: user.Email})
}

// HandleLogin обрабатывает POST-запросы на "/api/user/login"
func (a *App) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reqBody models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := a.auth.Login(reqBody.Email, reqBody.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}

	sess, _ := middleware.GetSession(r)
	sess.UserID = user.ID
	if err := middleware.SetSessionCookie(w, a.svc, a.cfg, sess); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, models.UserResponse{ID: user.ID, Email: user.Email})
}

// HandleLogout обрабатывает POST-запросы на "/api/user/logout"
func (a *App) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusOK)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, a.svc.GetStats())
}

// HandleDebugDump обрабатывает GET-запросы на "/urls.json".
// Отладочная выгрузка всего реестра, доступна только из доверенной подсети.
func (a *App) HandleDebugDump(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, a.svc.GetAllURLs())
}

// writeError переводит ошибки сервиса в HTTP-статусы
func (a *App) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrURLNotFound):
		http.Error(w, "URL not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "You are not authorized to modify this URL", http.StatusForbidden)
	case errors.Is(err, service.ErrEmptyURL):
		http.Error(w, "URL is required", http.StatusBadRequest)
	case errors.Is(err, service.ErrEmptyCredentials):
		http.Error(w, "Email and password are required", http.StatusBadRequest)
	case errors.Is(err, service.ErrEmailTaken):
		http.Error(w, "Email already used", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
		return
	}
}
