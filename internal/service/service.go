// Package service реализует логику работы с короткими URL: создание,
// авторизацию доступа по владельцу и учёт посещений.
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/tempizhere/gotiny/internal/models"
	"github.com/tempizhere/gotiny/internal/repository"
)

// shortIDAlphabet задаёт 62-символьный алфавит коротких ID
const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// shortIDLength задаёт длину короткого ID
const shortIDLength = 6

// maxGenerateAttempts ограничивает повторную генерацию при коллизии ID
const maxGenerateAttempts = 5

var (
	ErrEmptyURL       = errors.New("empty URL")
	ErrURLNotFound    = errors.New("URL not found")
	ErrForbidden      = errors.New("URL belongs to another user")
	ErrUniqueIDFailed = errors.New("failed to generate unique ID")
)

// Service реализует операции над реестром коротких URL
type Service struct {
	urls      repository.URLRepository
	users     repository.UserRepository
	baseURL   string
	jwtSecret string
}

// NewService создаёт новый экземпляр Service
func NewService(urls repository.URLRepository, users repository.UserRepository, baseURL, jwtSecret string) *Service {
	return &Service{
		urls:      urls,
		users:     users,
		baseURL:   baseURL,
		jwtSecret: jwtSecret,
	}
}

// GenerateShortID генерирует короткий ID из 6 алфавитно-цифровых символов
func (s *Service) GenerateShortID() (string, error) {
	return gonanoid.Generate(shortIDAlphabet, shortIDLength)
}

// NormalizeURL дописывает схему http://, если входная строка не начинается
// точно с http:// или https://. Функция идемпотентна.
func NormalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "http://" + rawURL
}

// CreateShortURL создаёт запись для пользователя. При коллизии короткого ID
// генерация повторяется, после maxGenerateAttempts попыток возвращается
// ErrUniqueIDFailed.
func (s *Service) CreateShortURL(originalURL, userID string) (models.URL, error) {
	if originalURL == "" {
		return models.URL{}, ErrEmptyURL
	}
	url := models.URL{
		OriginalURL: NormalizeURL(originalURL),
		UserID:      userID,
	}
	for i := 0; i < maxGenerateAttempts; i++ {
		id, err := s.GenerateShortID()
		if err != nil {
			return models.URL{}, err
		}
		url.ShortID = id
		err = s.urls.Save(url)
		if err == nil {
			return url, nil
		}
		if errors.Is(err, repository.ErrIDExists) {
			continue
		}
		return models.URL{}, err
	}
	return models.URL{}, ErrUniqueIDFailed
}

// ShortURL собирает полный короткий URL из базового адреса и ID
func (s *Service) ShortURL(id string) string {
	return strings.TrimRight(s.baseURL, "/") + "/" + id
}

// GetUserURLs возвращает все записи пользователя в порядке создания
func (s *Service) GetUserURLs(userID string) ([]models.URL, error) {
	return s.urls.GetURLsByUserID(userID)
}

// GetURL возвращает запись по ID после проверки владельца.
// Отсутствие записи проверяется раньше прав: ErrURLNotFound важнее ErrForbidden.
func (s *Service) GetURL(id, callerID string) (models.URL, error) {
	url, exists := s.urls.Get(id)
	if !exists {
		return models.URL{}, ErrURLNotFound
	}
	if err := authorizeOwner(url, callerID); err != nil {
		return models.URL{}, err
	}
	return url, nil
}

// UpdateURL заменяет оригинальный URL записи после проверки владельца
func (s *Service) UpdateURL(id, callerID, rawURL string) (models.URL, error) {
	if rawURL == "" {
		return models.URL{}, ErrEmptyURL
	}
	url, exists := s.urls.Get(id)
	if !exists {
		return models.URL{}, ErrURLNotFound
	}
	if err := authorizeOwner(url, callerID); err != nil {
		return models.URL{}, err
	}
	if err := s.urls.Update(id, NormalizeURL(rawURL)); err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return models.URL{}, ErrURLNotFound
		}
		return models.URL{}, err
	}
	// Запись могла исчезнуть между Update и повторным чтением
	url, exists = s.urls.Get(id)
	if !exists {
		return models.URL{}, ErrURLNotFound
	}
	return url, nil
}

// DeleteURL безвозвратно удаляет запись после проверки владельца
func (s *Service) DeleteURL(id, callerID string) error {
	url, exists := s.urls.Get(id)
	if !exists {
		return ErrURLNotFound
	}
	if err := authorizeOwner(url, callerID); err != nil {
		return err
	}
	return s.urls.Delete(id)
}

// Resolve возвращает оригинальный URL для редиректа и фиксирует посещение.
// Посещение уникально, если в сеансе ещё нет токена для этого ID; тогда
// выпускается новый токен, который вызывающая сторона сохраняет в сеансе.
func (s *Service) Resolve(id string, sess models.Session) (target, newToken string, err error) {
	_, seen := sess.VisitTokens[id]
	visit := models.Visit{
		VisitorID: sess.UserID,
		Unique:    !seen,
		VisitedAt: time.Now(),
	}
	url, err := s.urls.RecordVisit(id, visit)
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return "", "", ErrURLNotFound
		}
		return "", "", err
	}
	if !seen {
		newToken = uuid.NewString()
	}
	return url.OriginalURL, newToken, nil
}

// GetAllURLs возвращает все записи реестра для отладочной выгрузки
func (s *Service) GetAllURLs() []models.URL {
	return s.urls.GetAll()
}

// GetStats возвращает суммарную статистику сервиса
func (s *Service) GetStats() models.StatsResponse {
	urls, visits := s.urls.GetStats()
	return models.StatsResponse{
		URLs:   urls,
		Users:  s.users.CountUsers(),
		Visits: visits,
	}
}

// authorizeOwner разрешает доступ только владельцу записи
func authorizeOwner(url models.URL, callerID string) error {
	if url.UserID != callerID {
		return ErrForbidden
	}
	return nil
}
