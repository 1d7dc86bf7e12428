// Package repository содержит хранилища URL и пользователей.
package repository

import (
	"errors"

	"github.com/tempizhere/gotiny/internal/models"
)

// ErrIDExists возвращается при попытке сохранить запись с занятым коротким ID
var ErrIDExists = errors.New("short ID already exists")

// ErrURLNotFound возвращается, когда запись с таким коротким ID отсутствует
var ErrURLNotFound = errors.New("URL not found")

// ErrEmailExists возвращается при регистрации с уже занятым email
var ErrEmailExists = errors.New("email already used")

// URLRepository определяет интерфейс для работы с хранилищем URL
type URLRepository interface {
	// Save сохраняет новую запись; возвращает ErrIDExists, если короткий ID занят
	Save(url models.URL) error
	// Get возвращает запись по короткому ID и флаг существования
	Get(id string) (models.URL, bool)
	// Update заменяет оригинальный URL записи, сохраняя владельца и статистику
	Update(id, originalURL string) error
	// Delete безвозвратно удаляет запись
	Delete(id string) error
	// GetURLsByUserID возвращает все записи пользователя в порядке создания
	GetURLsByUserID(userID string) ([]models.URL, error)
	// RecordVisit фиксирует посещение: увеличивает счётчики и дописывает журнал
	RecordVisit(id string, visit models.Visit) (models.URL, error)
	// GetAll возвращает все записи в порядке создания
	GetAll() []models.URL
	// GetStats возвращает количество записей и суммарное число посещений
	GetStats() (urls, visits int)
	// Clear очищает все данные в хранилище
	Clear()
}

// UserRepository определяет интерфейс для работы с хранилищем пользователей
type UserRepository interface {
	// CreateUser сохраняет пользователя; возвращает ErrEmailExists при занятом email
	CreateUser(user models.User) error
	// GetUserByID возвращает пользователя по идентификатору и флаг существования
	GetUserByID(id string) (models.User, bool)
	// GetUserByEmail возвращает пользователя по email и флаг существования
	GetUserByEmail(email string) (models.User, bool)
	// CountUsers возвращает количество зарегистрированных пользователей
	CountUsers() int
	// Clear очищает все данные в хранилище
	Clear()
}
