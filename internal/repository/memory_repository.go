package repository

import (
	"sync"

	"github.com/tempizhere/gotiny/internal/models"
)

// MemoryURLRepository реализует интерфейс URLRepository с использованием map.
// Мутации выполняются под write-блокировкой, чтение под read-блокировкой.
type MemoryURLRepository struct {
	mu    sync.RWMutex
	store map[string]models.URL
	order []string
}

// NewMemoryURLRepository создаёт новый экземпляр MemoryURLRepository
func NewMemoryURLRepository() *MemoryURLRepository {
	return &MemoryURLRepository{
		store: make(map[string]models.URL),
	}
}

// Save сохраняет запись, если короткий ID ещё не занят
func (r *MemoryURLRepository) Save(url models.URL) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.store[url.ShortID]; exists {
		return ErrIDExists
	}
	r.store[url.ShortID] = url
	r.order = append(r.order, url.ShortID)
	return nil
}

// Get возвращает запись по короткому ID, если она существует
func (r *MemoryURLRepository) Get(id string) (models.URL, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	url, exists := r.store[id]
	if !exists {
		return models.URL{}, false
	}
	return cloneURL(url), true
}

// Update заменяет оригинальный URL, не трогая владельца и статистику
func (r *MemoryURLRepository) Update(id, originalURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	url, exists := r.store[id]
	if !exists {
		return ErrURLNotFound
	}
	url.OriginalURL = originalURL
	r.store[id] = url
	return nil
}

// Delete удаляет запись по короткому ID
func (r *MemoryURLRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.store[id]; !exists {
		return ErrURLNotFound
	}
	delete(r.store, id)
	for i, storedID := range r.order {
		if storedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// GetURLsByUserID возвращает записи пользователя в порядке создания
func (r *MemoryURLRepository) GetURLsByUserID(userID string) ([]models.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	urls := make([]models.URL, 0)
	for _, id := range r.order {
		if u := r.store[id]; u.UserID == userID {
			urls = append(urls, cloneURL(u))
		}
	}
	return urls, nil
}

// RecordVisit увеличивает счётчик посещений и дописывает событие в журнал.
// Счётчик уникальных посещений растёт только для событий с Unique = true.
func (r *MemoryURLRepository) RecordVisit(id string, visit models.Visit) (models.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	url, exists := r.store[id]
	if !exists {
		return models.URL{}, ErrURLNotFound
	}
	url.VisitCount++
	if visit.Unique {
		url.UniqueVisitCount++
	}
	url.Visits = append(url.Visits, visit)
	r.store[id] = url
	return cloneURL(url), nil
}

// GetAll возвращает все записи в порядке создания
func (r *MemoryURLRepository) GetAll() []models.URL {
	r.mu.RLock()
	defer r.mu.RUnlock()
	urls := make([]models.URL, 0, len(r.order))
	for _, id := range r.order {
		urls = append(urls, cloneURL(r.store[id]))
	}
	return urls
}

// GetStats возвращает количество записей и суммарное число посещений
func (r *MemoryURLRepository) GetStats() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	visits := 0
	for _, url := range r.store {
		visits += int(url.VisitCount)
	}
	return len(r.store), visits
}

// Clear очищает хранилище
func (r *MemoryURLRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = make(map[string]models.URL)
	r.order = nil
}

// cloneURL копирует запись вместе с журналом посещений, чтобы вызывающая
// сторона не видела последующих дозаписей под чужой блокировкой
func cloneURL(url models.URL) models.URL {
	if len(url.Visits) > 0 {
		visits := make([]models.Visit, len(url.Visits))
		copy(visits, url.Visits)
		url.Visits = visits
	}
	return url
}
