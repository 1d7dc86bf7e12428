package repository

import (
	"sync"

	"github.com/tempizhere/gotiny/internal/models"
)

// MemoryUserRepository реализует интерфейс UserRepository с использованием map.
// Помимо основного хранилища ведётся индекс email -> id, чтобы поиск при входе
// не требовал полного перебора пользователей.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	emails map[string]string
}

// NewMemoryUserRepository создаёт новый экземпляр MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
	}
}

// CreateUser сохраняет пользователя и обновляет индекс email
func (r *MemoryUserRepository) CreateUser(user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.emails[user.Email]; exists {
		return ErrEmailExists
	}
	r.users[user.ID] = user
	r.emails[user.Email] = user.ID
	return nil
}

// GetUserByID возвращает пользователя по идентификатору
func (r *MemoryUserRepository) GetUserByID(id string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, exists := r.users[id]
	return user, exists
}

// GetUserByEmail возвращает пользователя по email через индекс
func (r *MemoryUserRepository) GetUserByEmail(email string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, exists := r.emails[email]
	if !exists {
		return models.User{}, false
	}
	user, exists := r.users[id]
	return user, exists
}

// CountUsers возвращает количество зарегистрированных пользователей
func (r *MemoryUserRepository) CountUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Clear очищает хранилище и индекс
func (r *MemoryUserRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]models.User)
	r.emails = make(map[string]string)
}
